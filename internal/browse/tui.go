// Package browse renders the stored snapshot's listings in an interactive
// terminal view. It reads the snapshot only; nothing here mutates state.
package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kwhalen/internwatch/internal/model"
)

// Lines per listing in the list view (title + subtitle + blank separator).
const itemHeight = 3

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	portalStatusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214")) // amber
)

type browseModel struct {
	snapshot model.Snapshot
	viewport viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width-2, msg.Height-5)
		m.viewport.SetContent(m.renderList())
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
			return m, nil
		case "down", "j":
			m.moveCursor(1)
			return m, nil
		case "enter", "o":
			if l, ok := m.selected(); ok {
				openURL(l.Link)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.snapshot.Listings) {
		return
	}
	m.cursor = next
	m.viewport.SetContent(m.renderList())
	m.ensureCursorVisible()
}

func (m *browseModel) ensureCursorVisible() {
	top := m.cursor * itemHeight
	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	} else if bottom := top + itemHeight; bottom > m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m browseModel) selected() (model.Listing, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Listings) {
		return model.Listing{}, false
	}
	return m.snapshot.Listings[m.cursor], true
}

func (m browseModel) renderList() string {
	if len(m.snapshot.Listings) == 0 {
		return subtitleStyle.Render("No listings in the snapshot.")
	}

	var b strings.Builder
	for i, l := range m.snapshot.Listings {
		title, subtitle := titleStyle, subtitleStyle
		if i == m.cursor {
			title, subtitle = selectedTitleStyle, selectedSubtitleStyle
		}
		b.WriteString(title.Render(l.Title))
		b.WriteString("\n")
		b.WriteString(subtitle.Render(l.Location + " · " + l.Link))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m browseModel) View() string {
	if !m.ready {
		return "loading…"
	}

	header := headerStyle.Render(fmt.Sprintf("internwatch — %d listings", len(m.snapshot.Listings)))
	if m.snapshot.Status != "" {
		header += "  " + portalStatusStyle.Render("status: "+m.snapshot.Status)
	}

	statusBar := statusBarStyle.Render("↑/↓ move · enter open link · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		borderStyle.Width(m.width-2).Render(m.viewport.View()),
		statusBar,
	)
}

// Run shows the snapshot browser and blocks until the user quits.
func Run(snap model.Snapshot) error {
	p := tea.NewProgram(browseModel{snapshot: snap}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Package diff computes the change report between the current scrape and the
// previously stored snapshot.
//
// Two strategies exist. ExactDiffer reproduces the historical behavior:
// records are compared by full-row equality, the header participates like any
// other row, and a field-level change shows up as a Removed plus an Added.
// KeyedDiffer matches listings by their link URL and classifies changes into
// Added, Removed, and Updated. KeyedDiffer is the default; ExactDiffer stays
// available for byte-compatibility with reports produced by older snapshots.
package diff

import (
	"fmt"
	"strings"

	"github.com/kwhalen/internwatch/internal/model"
)

// preamble is the fixed first element of every report. It carries its own
// trailing newline so the join below yields a blank line after the heading.
const preamble = "New positions: \n"

const noChanges = "No changes"

var (
	_ model.Differ = (*ExactDiffer)(nil)
	_ model.Differ = (*KeyedDiffer)(nil)
)

// ExactDiffer diffs record sets by exact full-record equality.
type ExactDiffer struct{}

func NewExactDiffer() *ExactDiffer { return &ExactDiffer{} }

// Diff builds the report. The No-changes check compares the two sets as
// ordered sequences and is independent of the per-record loops below, so a
// run where only the status record moved produces a status echo line and no
// "No changes" line.
func (d *ExactDiffer) Diff(current, previous []model.Record) string {
	lines := []string{preamble}

	if recordSetsEqual(current, previous) {
		lines = append(lines, noChanges)
	}

	for _, rec := range current {
		if containsRecord(previous, rec) {
			continue
		}
		if rec.IsStatus() {
			lines = append(lines, strings.Join(rec, " "))
			continue
		}
		lines = append(lines, addedBlock(rec.Field(0), rec.Field(1), rec.Field(2))...)
	}

	for _, rec := range previous {
		if containsRecord(current, rec) {
			continue
		}
		lines = append(lines, "Removed: "+rec.Field(0))
	}

	return strings.Join(lines, "\n")
}

// KeyedDiffer matches listings by link URL, so a relabeled location reports
// as a single Updated entry instead of a Removed/Added pair.
type KeyedDiffer struct{}

func NewKeyedDiffer() *KeyedDiffer { return &KeyedDiffer{} }

// Diff builds the report from the listing-level view of both record sets.
func (d *KeyedDiffer) Diff(current, previous []model.Record) string {
	cur := model.FromRecords(current)
	prev := model.FromRecords(previous)

	prevByLink := make(map[string]model.Listing, len(prev.Listings))
	for _, l := range prev.Listings {
		prevByLink[l.Link] = l
	}
	curLinks := make(map[string]bool, len(cur.Listings))
	for _, l := range cur.Listings {
		curLinks[l.Link] = true
	}

	lines := []string{preamble}
	changes := 0

	for _, l := range cur.Listings {
		old, ok := prevByLink[l.Link]
		if !ok {
			lines = append(lines, addedBlock(l.Title, l.Location, l.Link)...)
			changes++
			continue
		}
		if old != l {
			lines = append(lines, updatedBlock(old, l)...)
			changes++
		}
	}

	for _, l := range prev.Listings {
		if !curLinks[l.Link] {
			lines = append(lines, "Removed: "+l.Title)
			changes++
		}
	}

	if cur.Status != prev.Status && cur.Status != "" {
		lines = append(lines, model.StatusMarker+" "+cur.Status)
		changes++
	}

	if changes == 0 {
		lines = append(lines, noChanges)
	}

	return strings.Join(lines, "\n")
}

func addedBlock(title, location, link string) []string {
	return []string{
		"Added: " + title,
		"Location: " + location,
		"Link: " + link,
		"\n",
	}
}

func updatedBlock(old, cur model.Listing) []string {
	lines := []string{"Updated: " + cur.Title}
	if old.Title != cur.Title {
		lines = append(lines, fmt.Sprintf("Title: %s -> %s", old.Title, cur.Title))
	}
	if old.Location != cur.Location {
		lines = append(lines, fmt.Sprintf("Location: %s -> %s", old.Location, cur.Location))
	}
	lines = append(lines, "\n")
	return lines
}

func recordSetsEqual(a, b []model.Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func containsRecord(set []model.Record, rec model.Record) bool {
	for _, r := range set {
		if r.Equal(rec) {
			return true
		}
	}
	return false
}

package source

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kwhalen/internwatch/internal/model"
)

// Credentials for the gated portal login form.
type Credentials struct {
	Username string
	Password string
}

// AuthenticatedFetcher retrieves a page that sits behind a login form and
// returns its rendered HTML. The production implementation drives a headless
// browser; tests substitute a canned-HTML fake.
type AuthenticatedFetcher interface {
	FetchAuthenticated(ctx context.Context, loginURL string, creds Credentials) ([]byte, error)
}

// Ensure PortalClient implements model.StatusSource.
var _ model.StatusSource = (*PortalClient)(nil)

// PortalClient logs into the application portal and reads the current
// application status from the landing page.
type PortalClient struct {
	loginURL       string
	creds          Credentials
	statusSelector string
	fetcher        AuthenticatedFetcher
}

// NewPortalClient returns a portal client. statusSelector is the CSS
// selector for the table cells carrying the status styling class.
func NewPortalClient(loginURL string, creds Credentials, statusSelector string, fetcher AuthenticatedFetcher) *PortalClient {
	return &PortalClient{
		loginURL:       loginURL,
		creds:          creds,
		statusSelector: statusSelector,
		fetcher:        fetcher,
	}
}

// FetchStatus performs the authenticated fetch and extracts the status.
func (p *PortalClient) FetchStatus(ctx context.Context) (string, error) {
	html, err := p.fetcher.FetchAuthenticated(ctx, p.loginURL, p.creds)
	if err != nil {
		return "", fmt.Errorf("fetching portal %s: %w", p.loginURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing portal %s: %w", p.loginURL, err)
	}

	return ExtractStatus(doc, p.statusSelector)
}

var nonWord = regexp.MustCompile(`\W`)

// ExtractStatus reads every cell matching selector, strips all non-word
// characters from each cell's text, and joins the results with spaces. No
// matching cell fails the run: a portal page without the status table means
// the scrape landed somewhere unexpected.
func ExtractStatus(doc *goquery.Document, selector string) (string, error) {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", fmt.Errorf("extracting status: no cells match %q", selector)
	}

	var parts []string
	sel.Each(func(i int, cell *goquery.Selection) {
		parts = append(parts, nonWord.ReplaceAllString(cell.Text(), ""))
	})
	return strings.Join(parts, " "), nil
}

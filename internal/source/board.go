// Package source fetches the two external pages and extracts records from
// them: the public careers board (plain GET) and the login-gated application
// portal (headless browser session).
package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/kwhalen/internwatch/internal/model"
)

// Ensure BoardClient implements model.ListingSource.
var _ model.ListingSource = (*BoardClient)(nil)

// BoardClient scrapes the public careers board page.
type BoardClient struct {
	pageURL string
	client  *resty.Client
	filter  model.TitleFilter
}

// NewBoardClient returns a client for the board page at pageURL. Anchors are
// selected by the given title filter.
func NewBoardClient(pageURL string, client *resty.Client, filter model.TitleFilter) *BoardClient {
	return &BoardClient{
		pageURL: pageURL,
		client:  client,
		filter:  filter,
	}
}

// FetchListings GETs the board page and extracts the selected listings in
// document order.
func (b *BoardClient) FetchListings(ctx context.Context) ([]model.Listing, error) {
	res, err := b.client.R().
		SetContext(ctx).
		Get(b.pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching board %s: %w", b.pageURL, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetching board %s: %w", b.pageURL, &model.HTTPError{StatusCode: res.StatusCode()})
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parsing board %s: %w", b.pageURL, err)
	}

	return ExtractListings(doc, b.pageURL, b.filter)
}

// ExtractListings scans every anchor in the document and builds a listing
// from each one whose text passes the filter. The location comes from the
// first span inside the anchor's parent container; its absence fails the
// extraction rather than substituting a placeholder. The link is the page's
// directory path joined with the anchor's relative href. All fields are
// whitespace-trimmed.
func ExtractListings(doc *goquery.Document, pageURL string, filter model.TitleFilter) ([]model.Listing, error) {
	base, err := baseDir(pageURL)
	if err != nil {
		return nil, fmt.Errorf("extracting listings: %w", err)
	}

	var listings []model.Listing
	var extractErr error

	doc.Find("a").EachWithBreak(func(i int, a *goquery.Selection) bool {
		text := a.Text()
		if !filter.Match(text) {
			return true
		}

		span := a.Parent().Find("span").First()
		if span.Length() == 0 {
			extractErr = fmt.Errorf("extracting listing %q: no location span in parent container", strings.TrimSpace(text))
			return false
		}

		href, ok := a.Attr("href")
		if !ok {
			extractErr = fmt.Errorf("extracting listing %q: anchor has no href", strings.TrimSpace(text))
			return false
		}

		listings = append(listings, model.Listing{
			Title:    strings.TrimSpace(text),
			Location: strings.TrimSpace(span.Text()),
			Link:     strings.TrimSpace(base + href),
		})
		return true
	})

	if extractErr != nil {
		return nil, extractErr
	}
	return listings, nil
}

// baseDir returns the board URL with the last path segment dropped, so a
// relative href like "/acme/jobs/1" appended to it forms an absolute link.
func baseDir(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing page url %s: %w", pageURL, err)
	}
	dir := path.Dir(u.Path)
	if dir == "/" || dir == "." {
		dir = ""
	}
	return u.Scheme + "://" + u.Host + dir, nil
}

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/kwhalen/internwatch/internal/filter"
	"github.com/kwhalen/internwatch/internal/model"
)

const boardHTML = `<html><body>
<div class="opening">
	<a href="/acme/jobs/1">Software Engineering Intern</a>
	<span class="location">Madison, WI</span>
</div>
<div class="opening">
	<a href="/acme/jobs/2">Senior Backend Engineer</a>
	<span class="location">Remote</span>
</div>
<div class="opening">
	<a href="/acme/jobs/3">
		Data Science Intern
	</a>
	<span class="location">  New York, NY  </span>
</div>
</body></html>`

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing test html: %v", err)
	}
	return doc
}

func internFilter() model.TitleFilter {
	return filter.NewKeywordFilter([]string{"Intern"})
}

func TestExtractListings(t *testing.T) {
	doc := parseHTML(t, boardHTML)

	listings, err := ExtractListings(doc, "https://boards.example.com/acme", internFilter())
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}

	want := []model.Listing{
		{Title: "Software Engineering Intern", Location: "Madison, WI", Link: "https://boards.example.com/acme/jobs/1"},
		{Title: "Data Science Intern", Location: "New York, NY", Link: "https://boards.example.com/acme/jobs/3"},
	}
	if len(listings) != len(want) {
		t.Fatalf("got %d listings, want %d: %v", len(listings), len(want), listings)
	}
	for i := range want {
		if listings[i] != want[i] {
			t.Errorf("listing %d = %+v, want %+v", i, listings[i], want[i])
		}
	}
}

func TestExtractListings_CaseSensitive(t *testing.T) {
	doc := parseHTML(t, `<div><a href="/x/1">software intern</a><span>Remote</span></div>`)

	listings, err := ExtractListings(doc, "https://boards.example.com/x", internFilter())
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("lowercase 'intern' must not match the case-sensitive keyword: %v", listings)
	}
}

func TestExtractListings_MissingLocationSpanFails(t *testing.T) {
	doc := parseHTML(t, `<div><a href="/x/1">QA Intern</a></div>`)

	_, err := ExtractListings(doc, "https://boards.example.com/x", internFilter())
	if err == nil {
		t.Fatal("expected error when the location span is absent, got nil")
	}
	if !strings.Contains(err.Error(), "location span") {
		t.Errorf("error %q should name the missing span", err)
	}
}

func TestExtractListings_MissingHrefFails(t *testing.T) {
	doc := parseHTML(t, `<div><a>QA Intern</a><span>Remote</span></div>`)

	_, err := ExtractListings(doc, "https://boards.example.com/x", internFilter())
	if err == nil {
		t.Fatal("expected error when the anchor has no href, got nil")
	}
}

func TestBaseDir(t *testing.T) {
	tests := []struct {
		pageURL string
		want    string
	}{
		{"https://boards.example.com/acme", "https://boards.example.com"},
		{"https://boards.example.com/acme/board", "https://boards.example.com/acme"},
		{"https://boards.example.com/", "https://boards.example.com"},
	}
	for _, tt := range tests {
		got, err := baseDir(tt.pageURL)
		if err != nil {
			t.Errorf("baseDir(%q): %v", tt.pageURL, err)
			continue
		}
		if got != tt.want {
			t.Errorf("baseDir(%q) = %q, want %q", tt.pageURL, got, tt.want)
		}
	}
}

func TestBoardClient_FetchListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(boardHTML))
	}))
	defer srv.Close()

	client := NewBoardClient(srv.URL+"/acme", resty.New(), internFilter())
	listings, err := client.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if want := srv.URL + "/acme/jobs/1"; listings[0].Link != want {
		t.Errorf("link = %q, want %q", listings[0].Link, want)
	}
}

func TestBoardClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewBoardClient(srv.URL+"/acme", resty.New(), internFilter())
	_, err := client.FetchListings(context.Background())
	if err == nil {
		t.Fatal("expected error on 404, got nil")
	}
}

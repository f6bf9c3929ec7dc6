package source

import (
	"context"
	"errors"
	"testing"
)

// FakeFetcher returns canned HTML without touching a browser.
type FakeFetcher struct {
	HTML []byte
	Err  error

	GotLoginURL string
	GotCreds    Credentials
}

func (f *FakeFetcher) FetchAuthenticated(_ context.Context, loginURL string, creds Credentials) ([]byte, error) {
	f.GotLoginURL = loginURL
	f.GotCreds = creds
	return f.HTML, f.Err
}

const portalHTML = `<html><body><table>
<tr><td class="status-cell">In Review!</td></tr>
<tr><td class="status-cell"> Phone Screen </td></tr>
</table></body></html>`

func TestPortalClient_FetchStatus(t *testing.T) {
	fake := &FakeFetcher{HTML: []byte(portalHTML)}
	creds := Credentials{Username: "me@example.com", Password: "hunter2"}
	client := NewPortalClient("https://portal.example.com/login", creds, "td.status-cell", fake)

	status, err := client.FetchStatus(context.Background())
	if err != nil {
		t.Fatalf("FetchStatus: %v", err)
	}

	// Non-word characters (punctuation, embedded spaces) are stripped per cell.
	if want := "InReview PhoneScreen"; status != want {
		t.Errorf("status = %q, want %q", status, want)
	}
	if fake.GotLoginURL != "https://portal.example.com/login" {
		t.Errorf("fetcher got login url %q", fake.GotLoginURL)
	}
	if fake.GotCreds != creds {
		t.Errorf("fetcher got creds %+v, want %+v", fake.GotCreds, creds)
	}
}

func TestPortalClient_NoStatusCellsFails(t *testing.T) {
	fake := &FakeFetcher{HTML: []byte(`<html><body><p>Welcome</p></body></html>`)}
	client := NewPortalClient("https://portal.example.com/login", Credentials{}, "td.status-cell", fake)

	_, err := client.FetchStatus(context.Background())
	if err == nil {
		t.Fatal("expected error when no cells match the status selector, got nil")
	}
}

func TestPortalClient_FetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("login form not found")
	fake := &FakeFetcher{Err: fetchErr}
	client := NewPortalClient("https://portal.example.com/login", Credentials{}, "td.status-cell", fake)

	_, err := client.FetchStatus(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("got %v, want wrapped %v", err, fetchErr)
	}
}

package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Ensure RodFetcher implements AuthenticatedFetcher.
var _ AuthenticatedFetcher = (*RodFetcher)(nil)

// LoginSelectors are the CSS selectors for the portal's login form fields.
type LoginSelectors struct {
	Username string
	Password string
	Submit   string
}

// RodFetcher logs into the portal with a headless Chrome session: navigate
// to the login page, fill the credential fields, submit, wait a fixed settle
// period, and capture the resulting page's HTML. Each fetch launches an
// isolated browser and tears it down afterwards.
type RodFetcher struct {
	selectors LoginSelectors
	settle    time.Duration
	logger    *slog.Logger
}

// NewRodFetcher returns a browser-backed fetcher. settle is how long to wait
// after submitting the form before capturing the page.
func NewRodFetcher(selectors LoginSelectors, settle time.Duration, logger *slog.Logger) *RodFetcher {
	return &RodFetcher{
		selectors: selectors,
		settle:    settle,
		logger:    logger,
	}
}

// FetchAuthenticated performs the full login-and-capture sequence. A missing
// form element is an error; there is no retry.
func (f *RodFetcher) FetchAuthenticated(ctx context.Context, loginURL string, creds Credentials) ([]byte, error) {
	l := launcher.New()
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("portal: launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("portal: connect browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("portal: create page: %w", err)
	}
	page = page.Context(ctx)

	if err := page.Navigate(loginURL); err != nil {
		return nil, fmt.Errorf("portal: navigate %s: %w", loginURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("portal: wait load %s: %w", loginURL, err)
	}

	if err := f.fillField(page, f.selectors.Username, creds.Username); err != nil {
		return nil, err
	}
	if err := f.fillField(page, f.selectors.Password, creds.Password); err != nil {
		return nil, err
	}

	submit, err := page.Element(f.selectors.Submit)
	if err != nil {
		return nil, fmt.Errorf("portal: find submit %q: %w", f.selectors.Submit, err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("portal: submit login form: %w", err)
	}

	f.logger.Debug("login submitted, settling", "delay", f.settle.String())
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("portal: settling: %w", ctx.Err())
	case <-time.After(f.settle):
	}

	res, err := page.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("portal: capture page: %w", err)
	}
	return []byte(res.Value.Str()), nil
}

func (f *RodFetcher) fillField(page *rod.Page, selector, value string) error {
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("portal: find field %q: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("portal: fill field %q: %w", selector, err)
	}
	return nil
}

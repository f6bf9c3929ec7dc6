package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kwhalen/internwatch/internal/model"
)

const twilioAPIBase = "https://api.twilio.com"

// Ensure TwilioNotifier implements model.Notifier.
var _ model.Notifier = (*TwilioNotifier)(nil)

// TwilioConfig holds the account and addressing for outbound SMS.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// TwilioNotifier sends the change report as a single SMS via the Twilio
// Messages API.
type TwilioNotifier struct {
	cfg        TwilioConfig
	apiBase    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTwilioNotifier returns a notifier posting to the Twilio REST API.
func NewTwilioNotifier(cfg TwilioConfig, httpClient *http.Client, logger *slog.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		cfg:        cfg,
		apiBase:    twilioAPIBase,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends body as one outbound message and returns the provider's
// message SID. Any provider failure is returned as-is; the caller treats it
// as fatal for the run.
func (n *TwilioNotifier) Notify(ctx context.Context, body string) (string, error) {
	form := url.Values{}
	form.Set("From", n.cfg.From)
	form.Set("To", n.cfg.To)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.apiBase, n.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building twilio request: %w", err)
	}
	req.SetBasicAuth(n.cfg.AccountSID, n.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to twilio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("posting to twilio: %w", &model.HTTPError{StatusCode: resp.StatusCode})
	}

	var out struct {
		Sid string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding twilio response: %w", err)
	}

	n.logger.Info("sms sent", "to", n.cfg.To, "sid", out.Sid, "chars", len(body))
	return out.Sid, nil
}

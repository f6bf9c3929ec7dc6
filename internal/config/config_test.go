package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const minimalConfig = `
board:
  url: https://boards.example.com/acme
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Interval != 1*time.Hour {
		t.Errorf("interval = %v, want 1h default", cfg.Interval)
	}
	if len(cfg.Board.Keywords) != 1 || cfg.Board.Keywords[0] != "Intern" {
		t.Errorf("keywords = %v, want [Intern]", cfg.Board.Keywords)
	}
	if cfg.Snapshot.Backend != "file" || cfg.Snapshot.Path != "last.tsv" {
		t.Errorf("snapshot = %+v, want file backend at last.tsv", cfg.Snapshot)
	}
	if cfg.Diff.Mode != "keyed" {
		t.Errorf("diff mode = %q, want keyed", cfg.Diff.Mode)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("notification type = %q, want log", cfg.Notification.Type)
	}
	if cfg.Portal.SettleDelay != 5*time.Second {
		t.Errorf("settle delay = %v, want 5s default", cfg.Portal.SettleDelay)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
interval: 30m
board:
  url: https://boards.example.com/acme
  keywords: [Intern, Co-op]
portal:
  enabled: true
  login_url: https://portal.example.com/login
  username: me@example.com
  password: hunter2
  status_selector: td.app-status
  settle_delay: 10s
snapshot:
  backend: sqlite
  path: snapshot.db
diff:
  mode: exact
notification:
  type: twilio
  account_sid: AC123
  auth_token: tok
  from: "+15550001111"
  to: "+15552223333"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Interval != 30*time.Minute {
		t.Errorf("interval = %v, want 30m", cfg.Interval)
	}
	if cfg.Portal.StatusSelector != "td.app-status" {
		t.Errorf("status selector = %q", cfg.Portal.StatusSelector)
	}
	if cfg.Portal.SettleDelay != 10*time.Second {
		t.Errorf("settle delay = %v, want 10s", cfg.Portal.SettleDelay)
	}
	if cfg.Diff.Mode != "exact" {
		t.Errorf("diff mode = %q, want exact", cfg.Diff.Mode)
	}
	if cfg.Notification.AccountSID != "AC123" {
		t.Errorf("account sid = %q", cfg.Notification.AccountSID)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_PORTAL_PASS", "s3cret")

	cfg, err := Load(writeConfig(t, `
board:
  url: https://boards.example.com/acme
portal:
  enabled: true
  login_url: https://portal.example.com/login
  username: me@example.com
  password: ${TEST_PORTAL_PASS}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Portal.Password != "s3cret" {
		t.Errorf("password = %q, want expanded env value", cfg.Portal.Password)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing board url",
			yaml:    `notification: {type: log}`,
			wantErr: "board.url",
		},
		{
			name: "portal without credentials",
			yaml: minimalConfig + `
portal:
  enabled: true
  login_url: https://portal.example.com/login
`,
			wantErr: "portal.username",
		},
		{
			name: "twilio without addressing",
			yaml: minimalConfig + `
notification:
  type: twilio
  account_sid: AC123
  auth_token: tok
`,
			wantErr: "notification.from",
		},
		{
			name:    "unknown snapshot backend",
			yaml:    minimalConfig + "\nsnapshot: {backend: redis}",
			wantErr: "snapshot.backend",
		},
		{
			name:    "unknown diff mode",
			yaml:    minimalConfig + "\ndiff: {mode: fuzzy}",
			wantErr: "diff.mode",
		},
		{
			name:    "bad interval",
			yaml:    minimalConfig + "\ninterval: soon",
			wantErr: "interval",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the internwatch watcher.
type Config struct {
	Interval     time.Duration
	Board        BoardConfig
	Portal       PortalConfig
	Snapshot     SnapshotConfig
	Diff         DiffConfig
	Notification NotificationConfig
}

// BoardConfig describes the public careers board to scrape.
type BoardConfig struct {
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"` // case-sensitive substrings, default ["Intern"]
}

// PortalConfig describes the login-gated application portal. Credentials are
// expanded from environment variables by Load.
type PortalConfig struct {
	Enabled          bool   `yaml:"enabled"`
	LoginURL         string `yaml:"login_url"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	StatusSelector   string `yaml:"status_selector"`
	UsernameSelector string `yaml:"username_selector"`
	PasswordSelector string `yaml:"password_selector"`
	SubmitSelector   string `yaml:"submit_selector"`
	SettleDelay      time.Duration
}

// SnapshotConfig selects where the last-known record set lives.
type SnapshotConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`
}

// DiffConfig selects the matching strategy.
type DiffConfig struct {
	Mode string `yaml:"mode"` // "keyed" or "exact"
}

// NotificationConfig controls which notifier is used and its addressing.
type NotificationConfig struct {
	Type       string `yaml:"type"` // "log" or "twilio"
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`
}

// rawConfig is used for YAML unmarshaling (durations as strings).
type rawConfig struct {
	Interval     string             `yaml:"interval"`
	Board        BoardConfig        `yaml:"board"`
	Portal       rawPortalConfig    `yaml:"portal"`
	Snapshot     SnapshotConfig     `yaml:"snapshot"`
	Diff         DiffConfig         `yaml:"diff"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawPortalConfig struct {
	Enabled          bool   `yaml:"enabled"`
	LoginURL         string `yaml:"login_url"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	StatusSelector   string `yaml:"status_selector"`
	UsernameSelector string `yaml:"username_selector"`
	PasswordSelector string `yaml:"password_selector"`
	SubmitSelector   string `yaml:"submit_selector"`
	SettleDelay      string `yaml:"settle_delay"`
}

// Load reads and parses the YAML config file at path, expands environment
// variables, applies defaults, validates, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables so credentials never live in the file.
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval := 1 * time.Hour // default
	if raw.Interval != "" {
		interval, err = time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse interval %q: %w", raw.Interval, err)
		}
	}

	settle := 5 * time.Second // default settle period after form submission
	if raw.Portal.SettleDelay != "" {
		settle, err = time.ParseDuration(raw.Portal.SettleDelay)
		if err != nil {
			return nil, fmt.Errorf("parse portal.settle_delay %q: %w", raw.Portal.SettleDelay, err)
		}
	}

	cfg := &Config{
		Interval: interval,
		Board:    raw.Board,
		Portal: PortalConfig{
			Enabled:          raw.Portal.Enabled,
			LoginURL:         raw.Portal.LoginURL,
			Username:         raw.Portal.Username,
			Password:         raw.Portal.Password,
			StatusSelector:   raw.Portal.StatusSelector,
			UsernameSelector: raw.Portal.UsernameSelector,
			PasswordSelector: raw.Portal.PasswordSelector,
			SubmitSelector:   raw.Portal.SubmitSelector,
			SettleDelay:      settle,
		},
		Snapshot:     raw.Snapshot,
		Diff:         raw.Diff,
		Notification: raw.Notification,
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Board.Keywords) == 0 {
		cfg.Board.Keywords = []string{"Intern"}
	}
	if cfg.Portal.StatusSelector == "" {
		cfg.Portal.StatusSelector = "td.status"
	}
	if cfg.Portal.UsernameSelector == "" {
		cfg.Portal.UsernameSelector = "#username"
	}
	if cfg.Portal.PasswordSelector == "" {
		cfg.Portal.PasswordSelector = "#password"
	}
	if cfg.Portal.SubmitSelector == "" {
		cfg.Portal.SubmitSelector = `button[type="submit"]`
	}
	if cfg.Snapshot.Backend == "" {
		cfg.Snapshot.Backend = "file"
	}
	if cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = "last.tsv"
	}
	if cfg.Diff.Mode == "" {
		cfg.Diff.Mode = "keyed"
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}
}

func validate(cfg *Config) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", cfg.Interval)
	}
	if cfg.Board.URL == "" {
		return fmt.Errorf("board.url is required")
	}

	if cfg.Portal.Enabled {
		if cfg.Portal.LoginURL == "" {
			return fmt.Errorf("portal.login_url is required when portal.enabled is true")
		}
		if cfg.Portal.Username == "" || cfg.Portal.Password == "" {
			return fmt.Errorf("portal.username and portal.password are required when portal.enabled is true")
		}
	}

	switch cfg.Snapshot.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("snapshot.backend must be \"file\" or \"sqlite\", got %q", cfg.Snapshot.Backend)
	}

	switch cfg.Diff.Mode {
	case "keyed", "exact":
	default:
		return fmt.Errorf("diff.mode must be \"keyed\" or \"exact\", got %q", cfg.Diff.Mode)
	}

	switch cfg.Notification.Type {
	case "log":
	case "twilio":
		if cfg.Notification.AccountSID == "" || cfg.Notification.AuthToken == "" {
			return fmt.Errorf("notification.account_sid and notification.auth_token are required when type is \"twilio\"")
		}
		if cfg.Notification.From == "" || cfg.Notification.To == "" {
			return fmt.Errorf("notification.from and notification.to are required when type is \"twilio\"")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"twilio\", got %q", cfg.Notification.Type)
	}

	return nil
}

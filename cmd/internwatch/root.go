package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/kwhalen/internwatch/internal/config"
	"github.com/kwhalen/internwatch/internal/diff"
	"github.com/kwhalen/internwatch/internal/filter"
	"github.com/kwhalen/internwatch/internal/model"
	"github.com/kwhalen/internwatch/internal/notify"
	"github.com/kwhalen/internwatch/internal/snapshot"
	"github.com/kwhalen/internwatch/internal/source"
	"github.com/kwhalen/internwatch/internal/watcher"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "internwatch",
	Short: "Watch a careers board and an application portal for changes",
	Long:  "Internwatch scrapes a careers board and a gated application portal, diffs the result against the last run, and texts you the changes.",
	// Default to `run` so that a bare `internwatch` from cron performs one
	// scrape-diff-notify cycle.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: INTERNWATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > INTERNWATCH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("INTERNWATCH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "twilio":
		logger.Info("using twilio notifier", "to", cfg.Notification.To)
		httpClient := &http.Client{Timeout: 30 * time.Second}
		return notify.NewTwilioNotifier(notify.TwilioConfig{
			AccountSID: cfg.Notification.AccountSID,
			AuthToken:  cfg.Notification.AuthToken,
			From:       cfg.Notification.From,
			To:         cfg.Notification.To,
		}, httpClient, logger)
	default:
		return notify.NewLogNotifier(logger)
	}
}

// setupStore opens the configured snapshot backend. The returned closer is a
// no-op for the file backend.
func setupStore(cfg *config.Config) (model.SnapshotStore, func() error, error) {
	if cfg.Snapshot.Backend == "sqlite" {
		store, err := snapshot.NewSQLiteStore(cfg.Snapshot.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return snapshot.NewFileStore(cfg.Snapshot.Path), func() error { return nil }, nil
}

func setupDiffer(cfg *config.Config) model.Differ {
	if cfg.Diff.Mode == "exact" {
		return diff.NewExactDiffer()
	}
	return diff.NewKeyedDiffer()
}

// buildWatcher assembles the full pipeline from config.
func buildWatcher(cfg *config.Config, notifier model.Notifier, logger *slog.Logger) (*watcher.Watcher, func() error, error) {
	board := source.NewBoardClient(
		cfg.Board.URL,
		resty.New().SetTimeout(30*time.Second),
		filter.NewKeywordFilter(cfg.Board.Keywords),
	)

	var portal model.StatusSource
	if cfg.Portal.Enabled {
		fetcher := source.NewRodFetcher(source.LoginSelectors{
			Username: cfg.Portal.UsernameSelector,
			Password: cfg.Portal.PasswordSelector,
			Submit:   cfg.Portal.SubmitSelector,
		}, cfg.Portal.SettleDelay, logger)
		portal = source.NewPortalClient(
			cfg.Portal.LoginURL,
			source.Credentials{Username: cfg.Portal.Username, Password: cfg.Portal.Password},
			cfg.Portal.StatusSelector,
			fetcher,
		)
		logger.Info("portal scraping enabled", "login_url", cfg.Portal.LoginURL)
	}

	store, closeStore, err := setupStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	w := watcher.New(board, portal, store, setupDiffer(cfg), notifier, logger)
	return w, closeStore, nil
}

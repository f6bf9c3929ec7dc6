package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kwhalen/internwatch/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape-diff-notify cycle and exit",
	Long:  "One-shot cycle: scrape both sources, diff against the last snapshot, send the report, save the new snapshot. Intended to be driven by cron.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	notifier := setupNotifier(cfg, logger)
	w, closeStore, err := buildWatcher(cfg, notifier, logger)
	if err != nil {
		logger.Error("failed to build watcher", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		if errors.Is(err, model.ErrNoSnapshot) {
			logger.Error("no snapshot yet — run `internwatch seed` once to create the first one", "error", err)
		} else {
			logger.Error("run failed", "error", err)
		}
		os.Exit(1)
	}

	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kwhalen/internwatch/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the watch daemon",
	Long:  "Runs scrape-diff-notify cycles on the configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.Interval.String(),
		"board", cfg.Board.URL,
		"portal", cfg.Portal.Enabled,
		"diff_mode", cfg.Diff.Mode,
	)

	notifier := setupNotifier(cfg, logger)
	w, closeStore, err := buildWatcher(cfg, notifier, logger)
	if err != nil {
		logger.Error("failed to build watcher", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(w, cfg.Interval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

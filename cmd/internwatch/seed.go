package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kwhalen/internwatch/internal/notify"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial snapshot",
	Long:  "Scrapes both sources and saves the result as the snapshot without diffing or notifying. Required once before the first `run`, since a missing snapshot is a fatal error.",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	w, closeStore, err := buildWatcher(cfg, notify.NewLogNotifier(logger), logger)
	if err != nil {
		logger.Error("failed to build watcher", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Seed(ctx); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	logger.Info("initial snapshot created", "path", cfg.Snapshot.Path)
	return nil
}

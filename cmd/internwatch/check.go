package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kwhalen/internwatch/internal/model"
	"github.com/kwhalen/internwatch/internal/notify"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scrape and diff once, print the report, exit",
	Long:  "Dry run: scrapes both sources and prints the change report. Does not send a notification and does not touch the snapshot.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: no notification will be sent, snapshot stays untouched")

	// The notifier is never called in check mode; wire the log one anyway so
	// buildWatcher has a complete pipeline.
	w, closeStore, err := buildWatcher(cfg, notify.NewLogNotifier(logger), logger)
	if err != nil {
		logger.Error("failed to build watcher", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := w.Report(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoSnapshot) {
			logger.Error("no snapshot yet — run `internwatch seed` once to create the first one", "error", err)
		} else {
			logger.Error("check failed", "error", err)
		}
		os.Exit(1)
	}

	fmt.Println(report)
	return nil
}

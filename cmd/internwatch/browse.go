package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwhalen/internwatch/internal/browse"
	"github.com/kwhalen/internwatch/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the stored snapshot",
	Long:  "Opens an interactive view of the listings in the last saved snapshot. Reads only; no scraping, no notification.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := setupStore(cfg)
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	recs, err := store.Load(context.Background())
	if err != nil {
		if errors.Is(err, model.ErrNoSnapshot) {
			logger.Error("no snapshot yet — run `internwatch seed` once to create the first one")
		} else {
			logger.Error("failed to load snapshot", "error", err)
		}
		os.Exit(1)
	}

	return browse.Run(model.FromRecords(recs))
}

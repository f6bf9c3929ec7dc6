package watcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kwhalen/internwatch/internal/model"
)

// Watcher owns the full run pipeline: scrape board → scrape portal status →
// load previous snapshot → diff → notify → save snapshot. The pipeline is
// strictly linear; any failure aborts the run before Save, so a failed run
// leaves the previous snapshot untouched for the next attempt.
type Watcher struct {
	board    model.ListingSource
	portal   model.StatusSource // nil when the portal is disabled
	store    model.SnapshotStore
	differ   model.Differ
	notifier model.Notifier
	logger   *slog.Logger
}

// New creates a watcher wired with all its dependencies. portal may be nil.
func New(
	board model.ListingSource,
	portal model.StatusSource,
	store model.SnapshotStore,
	differ model.Differ,
	notifier model.Notifier,
	logger *slog.Logger,
) *Watcher {
	return &Watcher{
		board:    board,
		portal:   portal,
		store:    store,
		differ:   differ,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes one full scrape-diff-notify cycle. The notification goes out
// every run, including a No-changes run.
func (w *Watcher) Run(ctx context.Context) error {
	current, previous, report, err := w.observe(ctx)
	if err != nil {
		return err
	}

	messageID, err := w.notifier.Notify(ctx, report)
	if err != nil {
		return fmt.Errorf("notifying: %w", err)
	}

	if err := w.store.Save(ctx, current); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	w.logger.Info("run complete",
		"records", len(current),
		"previous", len(previous),
		"message_id", messageID,
	)
	return nil
}

// Report runs the scrape and diff without notifying or saving. Used by the
// check command.
func (w *Watcher) Report(ctx context.Context) (string, error) {
	_, _, report, err := w.observe(ctx)
	return report, err
}

// Seed scrapes the current state and saves it as the snapshot without
// diffing or notifying. It creates the initial snapshot that Run requires.
func (w *Watcher) Seed(ctx context.Context) error {
	snap, err := w.scrape(ctx)
	if err != nil {
		return err
	}
	if err := w.store.Save(ctx, snap.Records()); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	w.logger.Info("snapshot seeded", "listings", len(snap.Listings), "status", snap.Status != "")
	return nil
}

func (w *Watcher) observe(ctx context.Context) (current, previous []model.Record, report string, err error) {
	snap, err := w.scrape(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	current = snap.Records()

	previous, err = w.store.Load(ctx)
	if err != nil {
		return nil, nil, "", fmt.Errorf("loading snapshot: %w", err)
	}

	return current, previous, w.differ.Diff(current, previous), nil
}

func (w *Watcher) scrape(ctx context.Context) (model.Snapshot, error) {
	listings, err := w.board.FetchListings(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("scraping board: %w", err)
	}

	snap := model.Snapshot{Listings: listings}
	if w.portal != nil {
		status, err := w.portal.FetchStatus(ctx)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("scraping portal: %w", err)
		}
		snap.Status = status
	}

	w.logger.Debug("scrape complete", "listings", len(snap.Listings), "status", snap.Status)
	return snap, nil
}

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/kwhalen/internwatch/internal/watcher"
)

// Scheduler owns the daemon loop: ticks on an interval and runs one
// scrape-diff-notify cycle each tick. A failed cycle is logged and the
// previous snapshot stays in place for the next attempt — the job is
// best-effort by design.
type Scheduler struct {
	watcher  *watcher.Watcher
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler running the watcher at the given interval.
func NewScheduler(w *watcher.Watcher, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		watcher:  w,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.watcher.Run(ctx); err != nil {
		s.logger.Error("run failed", "error", err)
	}
}

package core

// scheduler.go provides background maintenance for the sync history.
//
// The retention job deletes runs (and their staged records) older than the
// configured number of days. It is long-running and context-aware for
// graceful shutdown, and logs failures without stopping the application.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds configuration for the retention scheduler.
type RetentionConfig struct {
	HistoryDays   int           // Days to keep sync runs (default: 30)
	CheckInterval time.Duration // How often to run (default: 6h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.HistoryDays <= 0 {
		c.HistoryDays = 30
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 6 * time.Hour
	}
	return c
}

// StartRetentionScheduler prunes old sync runs. It runs immediately on
// start, then every CheckInterval, and stops when ctx is cancelled.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("retention scheduler started",
		"history_days", cfg.HistoryDays,
		"check_interval", cfg.CheckInterval.String(),
	)

	s.runRetentionJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg)
		}
	}
}

// runRetentionJob performs one prune cycle and returns the number of runs
// removed.
func (s *Service) runRetentionJob(ctx context.Context, cfg RetentionConfig) int64 {
	start := time.Now()
	cutoff := s.now().UTC().AddDate(0, 0, -cfg.HistoryDays)

	pruned, err := s.store.PruneRuns(ctx, cutoff)
	if err != nil {
		slog.Error("retention job failed", "error", err)
		return 0
	}

	slog.Info("retention job completed",
		"runs_pruned", pruned,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pruned
}

package store

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically purges expired status records from backends that
// cannot evict on their own.
type Sweeper struct {
	store    StatusStore
	logger   *slog.Logger
	interval time.Duration
}

func NewSweeper(store StatusStore, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, logger: logger, interval: interval}
}

// Start blocks until ctx is cancelled; run it on its own goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("status store sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("status store sweeper stopped")
			return
		case <-ticker.C:
			purged, err := s.store.PurgeExpired(ctx, time.Now())
			if err != nil {
				s.logger.Error("failed to purge expired status records", "error", err)
				continue
			}
			if purged > 0 {
				s.logger.Info("expired status records purged", "count", purged)
			}
		}
	}
}

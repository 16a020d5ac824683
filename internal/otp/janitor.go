package otp

import (
	"context"
	"log/slog"
	"time"
)

// Janitor periodically removes challenges that expired more than retention
// ago. Verification never depends on it.
type Janitor struct {
	store     Store
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewJanitor returns a Janitor sweeping store every interval.
func NewJanitor(store Store, interval, retention time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{store: store, interval: interval, retention: retention, logger: logger, now: time.Now}
}

// Sweep runs one purge pass and returns the number of removed challenges.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	return j.store.PurgeExpired(ctx, j.now().Add(-j.retention))
}

// Run sweeps until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := j.Sweep(ctx)
			if err != nil {
				j.logger.Warn("otp purge failed", "error", err)
				continue
			}
			if n > 0 {
				j.logger.Debug("otp challenges purged", "count", n)
			}
		}
	}
}

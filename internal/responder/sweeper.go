package responder

import (
	"context"
	"log/slog"
	"time"

	"github.com/aiox-platform/vtuber/internal/metrics"
)

// Evicter removes stale comments.
type Evicter interface {
	EvictCommentsOlderThan(horizon time.Duration) int
}

// Sweeper periodically drops comments nobody answered in time.
type Sweeper struct {
	pools    Evicter
	interval time.Duration
	horizon  time.Duration
}

// NewSweeper creates a sweeper evicting comments older than horizon every interval.
func NewSweeper(pools Evicter, interval, horizon time.Duration) *Sweeper {
	return &Sweeper{pools: pools, interval: interval, horizon: horizon}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("sweeper started", "interval", s.interval, "horizon", s.horizon)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs a single eviction pass and returns how many comments were removed.
func (s *Sweeper) Sweep() int {
	n := s.pools.EvictCommentsOlderThan(s.horizon)
	if n > 0 {
		metrics.CommentsEvictedTotal.Add(float64(n))
		slog.Debug("sweeper: evicted stale comments", "count", n)
	}
	return n
}

package ingest

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffConfig bounds the exponential delay between reconnect or retry attempts.
type BackoffConfig struct {
	Initial time.Duration
	Max     time.Duration
}

// DefaultBackoff returns 1s initial delay capped at 30s.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{Initial: time.Second, Max: 30 * time.Second}
}

func (c BackoffConfig) newBackOff() backoff.BackOff {
	if c.Initial <= 0 {
		c.Initial = time.Second
	}
	if c.Max < c.Initial {
		c.Max = c.Initial
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.Initial
	b.MaxInterval = c.Max
	b.MaxElapsedTime = 0 // retry forever
	b.Reset()
	return b
}

// sleepBackOff waits for the next delay. It returns false if ctx ended first.
func sleepBackOff(ctx context.Context, b backoff.BackOff) bool {
	t := time.NewTimer(b.NextBackOff())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

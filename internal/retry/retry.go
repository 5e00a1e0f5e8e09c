// Package retry runs a function a bounded number of times with exponential
// backoff. The zero Config means exactly one attempt, which is the notifier's
// default posture: a failed run reports and exits, the next scheduled
// invocation is the retry.
package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

type Config struct {
	// Attempts is the total number of tries, not the number of retries.
	// Values below 1 are treated as 1.
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Attempts < 1 {
		c.Attempts = 1
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 200 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 2 * time.Second
	}
	if c.Jitter <= 0 {
		c.Jitter = 100 * time.Millisecond
	}
	return c
}

// Do calls fn until it succeeds or the attempt budget is spent. The last
// error is returned as-is so callers can still unwrap it. Context
// cancellation during a backoff pause aborts immediately with ctx.Err().
func Do(ctx context.Context, config Config, fn func() error) error {
	cfg := config.withDefaults()

	var lastErr error
	delay := cfg.BaseDelay
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.Attempts {
			break
		}
		sleep := delay + rand.N(cfg.Jitter)
		if sleep > cfg.MaxDelay {
			sleep = cfg.MaxDelay
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return lastErr
}

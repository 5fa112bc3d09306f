package backoff

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Config holds the schedule of waits between polls
type Config struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultConfig returns the polling schedule used while the backend clusters
// a dataset: 1s, 1.5s, 2.25s ... capped at 10s, for up to 60 polls
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     60,
		BaseDelay:       time.Second,
		MaxDelay:        10 * time.Second,
		BackoffMultiple: 1.5,
	}
}

// schedule returns a jitter-free exponential schedule for cfg
func (c Config) schedule() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.BaseDelay
	b.RandomizationFactor = 0
	b.Multiplier = c.BackoffMultiple
	if b.Multiplier <= 0 {
		b.Multiplier = 1
	}
	b.MaxInterval = c.MaxDelay
	if b.MaxInterval <= 0 {
		b.MaxInterval = time.Duration(math.MaxInt64)
	}
	b.Reset()
	return b
}

// Delay computes the wait before the given attempt (0-based) using
// exponential backoff
func (c Config) Delay(attempt int) time.Duration {
	b := c.schedule()
	delay := b.NextBackOff()
	for i := 0; i < attempt; i++ {
		delay = b.NextBackOff()
	}
	return delay
}

// PollFunc is called once per attempt. It returns done=true to stop polling.
// A non-nil error also stops polling and is returned as is.
type PollFunc func(ctx context.Context, attempt int) (done bool, err error)

// Logger defines a function for logging poll attempts
type Logger func(message string, args ...any)

// ExhaustedError is returned when MaxAttempts polls did not finish
type ExhaustedError struct {
	Name        string
	MaxAttempts int
}

func (e *ExhaustedError) Error() string {
	return e.Name + " did not finish after " + strconv.Itoa(e.MaxAttempts) + " polls"
}

// Poll calls fn until it reports done, returns an error, the context ends,
// or MaxAttempts is reached. The first call happens immediately.
func Poll(ctx context.Context, cfg Config, name string, logger Logger, fn PollFunc) error {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	schedule := cfg.schedule()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := schedule.NextBackOff()
			if logger != nil {
				logger("waiting before next poll", "name", name, "attempt", attempt+1, "max_attempts", maxAttempts, "delay", delay)
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		done, err := fn(ctx, attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	return &ExhaustedError{Name: name, MaxAttempts: maxAttempts}
}

package tmdb

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryPolicy retries an operation on transport failures with exponential backoff.
// After failed attempt n it waits BackoffFactor^n * BackoffUnit before attempt n+1.
type RetryPolicy struct {
	MaxRetries    int
	BackoffFactor float64
	BackoffUnit   time.Duration
	// Sleep waits d or returns early with the context error. Defaults to a timer-based wait.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *logrus.Logger
}

// DefaultRetryPolicy waits 2s then 4s across three attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BackoffFactor: 2, BackoffUnit: time.Second}
}

// Backoff returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(p.BackoffFactor, float64(attempt)) * float64(p.BackoffUnit))
}

// Do runs fn until it succeeds, fails with a non-transport error, or MaxRetries
// transport failures have happened.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	maxAttempts := p.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransport(err) {
			return err
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}

		wait := p.Backoff(attempt)
		upstreamRetriesTotal.Inc()
		if p.Logger != nil {
			p.Logger.WithFields(logrus.Fields{"op": op, "attempt": attempt, "wait": wait.String()}).WithError(err).Warn("upstream attempt failed, retrying")
		}
		if err := sleep(ctx, wait); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("retry aborted after attempt %d: %w", attempt, err)}
		}
	}

	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{"op": op, "attempts": maxAttempts}).WithError(lastErr).Error("all upstream attempts failed")
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, maxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

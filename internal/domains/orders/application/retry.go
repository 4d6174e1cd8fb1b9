package application

import (
	"context"
	"time"
)

// RetryPolicy re-attempts a conflict-prone unit of work with deterministic
// exponential backoff: delay = InitialInterval × BackoffCoefficient^(attempt-1),
// capped at MaximumInterval when set. No jitter; callers needing herd dispersal
// can layer it on top.
type RetryPolicy struct {
	MaximumAttempts    int
	InitialInterval    time.Duration
	BackoffCoefficient float64
	MaximumInterval    time.Duration

	// pause is a test seam; nil means a real timer honoring ctx cancellation.
	pause func(ctx context.Context, d time.Duration) error
}

// Two profiles are in use: a coarse one around a whole status transition and a
// fine one around each individual stock decrement.
func defaultTransitionRetry() RetryPolicy {
	return RetryPolicy{
		MaximumAttempts:    3,
		InitialInterval:    100 * time.Millisecond,
		BackoffCoefficient: 2.0,
	}
}

func defaultStockRetry() RetryPolicy {
	return RetryPolicy{
		MaximumAttempts:    5,
		InitialInterval:    50 * time.Millisecond,
		BackoffCoefficient: 1.5,
		MaximumInterval:    time.Second,
	}
}

// Delay computes the backoff before the retry that follows the given attempt
// (attempts are counted from 1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(p.InitialInterval)
	for i := 1; i < attempt; i++ {
		delay *= p.BackoffCoefficient
	}
	result := time.Duration(delay)
	if p.MaximumInterval > 0 && result > p.MaximumInterval {
		return p.MaximumInterval
	}
	return result
}

// Execute runs op up to MaximumAttempts times, backing off between attempts
// while retryable reports the failure as transient. The last error is returned
// on exhaustion; context cancellation aborts the wait immediately.
func (p RetryPolicy) Execute(ctx context.Context, retryable func(error) bool, op func(context.Context) error) error {
	attempts := p.MaximumAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil || retryable == nil || !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if waitErr := p.wait(ctx, p.Delay(attempt)); waitErr != nil {
			return waitErr
		}
	}
	return err
}

func (p RetryPolicy) wait(ctx context.Context, d time.Duration) error {
	if p.pause != nil {
		return p.pause(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

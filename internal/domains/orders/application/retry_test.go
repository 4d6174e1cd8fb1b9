package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func instantPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaximumAttempts:    attempts,
		InitialInterval:    50 * time.Millisecond,
		BackoffCoefficient: 2.0,
		pause:              func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	policy := RetryPolicy{
		InitialInterval:    100 * time.Millisecond,
		BackoffCoefficient: 2.0,
	}
	require.Equal(t, 100*time.Millisecond, policy.Delay(1))
	require.Equal(t, 200*time.Millisecond, policy.Delay(2))
	require.Equal(t, 400*time.Millisecond, policy.Delay(3))
}

func TestRetryPolicy_DelayCapped(t *testing.T) {
	policy := defaultStockRetry()
	require.Equal(t, 50*time.Millisecond, policy.Delay(1))
	require.Equal(t, 75*time.Millisecond, policy.Delay(2))
	// 50ms * 1.5^9 far exceeds the cap.
	require.Equal(t, time.Second, policy.Delay(10))
}

func TestExecute_SucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := instantPolicy(3).Execute(context.Background(), func(error) bool { return true }, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestExecute_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := instantPolicy(5).Execute(context.Background(), func(err error) bool { return errors.Is(err, errTransient) }, func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestExecute_ReturnsLastErrorOnExhaustion(t *testing.T) {
	calls := 0
	err := instantPolicy(3).Execute(context.Background(), func(error) bool { return true }, func(context.Context) error {
		calls++
		return errTransient
	})
	require.ErrorIs(t, err, errTransient)
	require.Equal(t, 3, calls)
}

func TestExecute_StopsOnNonRetryableError(t *testing.T) {
	terminal := errors.New("terminal")
	calls := 0
	err := instantPolicy(5).Execute(context.Background(), func(err error) bool { return errors.Is(err, errTransient) }, func(context.Context) error {
		calls++
		return terminal
	})
	require.ErrorIs(t, err, terminal)
	require.Equal(t, 1, calls)
}

func TestExecute_HonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := instantPolicy(5)
	calls := 0
	err := policy.Execute(ctx, func(error) bool { return true }, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestDefaultProfiles(t *testing.T) {
	transition := defaultTransitionRetry()
	require.Equal(t, 3, transition.MaximumAttempts)
	require.Equal(t, 100*time.Millisecond, transition.InitialInterval)

	stock := defaultStockRetry()
	require.Equal(t, 5, stock.MaximumAttempts)
	require.Equal(t, 50*time.Millisecond, stock.InitialInterval)
	require.Equal(t, time.Second, stock.MaximumInterval)
}

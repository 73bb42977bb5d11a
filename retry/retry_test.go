package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/scrivener/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastPolicy keeps test runs short.
func fastPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoRecoversAfterTwoFailures(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	cause := errors.New("always down")
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		return cause
	})
	assert.Equal(t, 3, attempts)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, cause)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func() error {
		attempts++
		return ai.Permanent(errors.New("bad request"))
	})
	assert.Equal(t, 1, attempts)
	assert.True(t, ai.IsPermanent(err))
	assert.NotErrorIs(t, err, ErrExhausted)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	policy := Policy{MaxAttempts: 5, BaseDelay: 50 * time.Millisecond}

	err := policy.Do(ctx, func() error {
		attempts++
		cancel() // cancel during the first backoff
		return errors.New("flaky")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDoTimedRetriesAttemptTimeouts(t *testing.T) {
	attempts := 0
	err := fastPolicy().DoTimed(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		attempts++
		<-ctx.Done()
		return ctx.Err()
	})
	assert.Equal(t, 3, attempts, "an attempt timeout must not end the schedule")
	assert.ErrorIs(t, err, ErrExhausted)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoTimedStopsOnParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}.DoTimed(ctx, time.Second, func(ctx context.Context) error {
		attempts++
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDoTimedZeroTimeoutDisablesBound(t *testing.T) {
	attempts := 0
	err := fastPolicy().DoTimed(context.Background(), 0, func(ctx context.Context) error {
		attempts++
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoInvalidMaxAttempts(t *testing.T) {
	err := Policy{MaxAttempts: 0}.Do(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestBackoffSchedule(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: 4 * time.Second, MaxDelay: 10 * time.Second}
	assert.Equal(t, 4*time.Second, p.Backoff(1))
	assert.Equal(t, 8*time.Second, p.Backoff(2))
	assert.Equal(t, 10*time.Second, p.Backoff(3)) // capped
	assert.Equal(t, 10*time.Second, p.Backoff(4))
}

func TestBackoffUncapped(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second}
	assert.Equal(t, 4*time.Second, p.Backoff(3))
}

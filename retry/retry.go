// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package retry provides the bounded exponential-backoff policy applied to
// every external-call site in the pipeline: outline generation, section
// generation and embedding. One Policy value is constructed per run and
// shared, so all call sites behave uniformly.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/scrivener/ai"
)

var (
	// ErrExhausted wraps the final error once every attempt has failed.
	ErrExhausted = errors.New("retry attempts exhausted")

	// ErrInvalidMaxAttempts is returned for a policy with no attempts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)

// Policy describes a bounded retry schedule with exponential backoff.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the delay after the first failure; it doubles per attempt.
	BaseDelay time.Duration

	// MaxDelay caps the backoff delay. Zero means no cap.
	MaxDelay time.Duration
}

// DefaultPolicy returns the schedule used for external service calls:
// 3 attempts, 4s base delay, capped at 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   4 * time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// Backoff returns the delay to sleep after the given attempt (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Do runs operation until it succeeds, the policy is exhausted, the error
// is permanent, or the context is done. Exhaustion is reported as
// ErrExhausted wrapping the last failure. Permanent failures (per
// ai.IsPermanent) and context errors are returned as-is without further
// attempts.
func (p Policy) Do(ctx context.Context, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if ai.IsPermanent(lastErr) {
			return lastErr
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(p.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}

// DoTimed runs operation like Do with a timeout applied to each attempt.
// An attempt cut off by its own timeout is reported as a plain retryable
// error so the schedule continues; cancellation of ctx itself still stops
// immediately. A non-positive timeout disables the per-attempt bound.
func (p Policy) DoTimed(ctx context.Context, timeout time.Duration, operation func(ctx context.Context) error) error {
	if timeout <= 0 {
		return p.Do(ctx, func() error { return operation(ctx) })
	}

	return p.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := operation(attemptCtx)
		if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("call timed out after %s", timeout)
		}
		return err
	})
}

package mock

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/poiesic/scrivener/ai"
)

// ErrScripted is the error returned by scripted failures.
var ErrScripted = errors.New("scripted failure")

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields and supports
// scripted failure runs for retry testing.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default echo behavior.
	CompleteFunc func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error)

	// Delay is slept before answering, to simulate service latency.
	Delay time.Duration

	// TokensPerCall is the usage reported per successful call.
	// Defaults to 10 prompt / 20 completion tokens when zero.
	TokensPerCall ai.Usage

	failuresLeft atomic.Int64
	callCount    atomic.Int64
}

// NewMockCompleter creates a mock completer with default echo behavior.
// Note: Returns concrete type to allow test assertions via CallCount.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// FailTimes scripts the next n calls to fail with ErrScripted before the
// mock starts succeeding again.
func (m *MockCompleter) FailTimes(n int) {
	m.failuresLeft.Store(int64(n))
}

// Complete returns a deterministic completion echoing a digest of the
// request, honoring scripted failures and latency first.
func (m *MockCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	m.callCount.Add(1)

	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if m.failuresLeft.Load() > 0 {
		m.failuresLeft.Add(-1)
		return nil, ErrScripted
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}

	usage := m.TokensPerCall
	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
		usage = ai.Usage{PromptTokens: 10, CompletionTokens: 20}
	}

	prompt := req.Prompt
	if len(prompt) > 60 {
		prompt = prompt[:60]
	}
	return &ai.Completion{
		Text:  fmt.Sprintf("generated response for: %s", prompt),
		Usage: usage,
	}, nil
}

// CallCount returns the number of times Complete was called, including
// failed calls.
func (m *MockCompleter) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count, scripted failures and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount.Store(0)
	m.failuresLeft.Store(0)
	m.CompleteFunc = nil
	m.Delay = 0
}

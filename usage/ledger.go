package usage

import (
	"sync/atomic"
	"time"

	"github.com/poiesic/scrivener/core"
)

// Rates holds per-thousand-token prices used for cost estimation.
type Rates struct {
	PromptPer1K     float64
	CompletionPer1K float64
}

// DefaultRates returns zero rates, which is correct for locally hosted
// models where token counts matter but dollars do not.
func DefaultRates() Rates {
	return Rates{}
}

// Ledger accumulates token usage across concurrent model calls.
// All methods are safe for concurrent use.
type Ledger struct {
	promptTokens     atomic.Int64
	completionTokens atomic.Int64
	calls            atomic.Int64
	rates            Rates
	startTime        time.Time
}

// NewLedger creates a ledger whose clock starts now.
func NewLedger(rates Rates) *Ledger {
	return &Ledger{
		rates:     rates,
		startTime: time.Now().UTC(),
	}
}

// Record adds one model call's token counts to the running totals.
func (l *Ledger) Record(promptTokens, completionTokens int64) {
	l.promptTokens.Add(promptTokens)
	l.completionTokens.Add(completionTokens)
	l.calls.Add(1)
}

// Calls reports how many model calls have been recorded.
func (l *Ledger) Calls() int {
	return int(l.calls.Load())
}

// PromptTokens reports the running prompt token total.
func (l *Ledger) PromptTokens() int64 {
	return l.promptTokens.Load()
}

// CompletionTokens reports the running completion token total.
func (l *Ledger) CompletionTokens() int64 {
	return l.completionTokens.Load()
}

// Snapshot closes out the accounting window and returns the totals with
// costs applied. The ledger keeps accumulating afterwards; each Snapshot
// reflects the totals at the moment it is taken.
func (l *Ledger) Snapshot() core.UsageSnapshot {
	prompt := l.promptTokens.Load()
	completion := l.completionTokens.Load()
	end := time.Now().UTC()

	promptCost := float64(prompt) / 1000.0 * l.rates.PromptPer1K
	completionCost := float64(completion) / 1000.0 * l.rates.CompletionPer1K

	return core.UsageSnapshot{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
		PromptCost:       promptCost,
		CompletionCost:   completionCost,
		TotalCost:        promptCost + completionCost,
		StartTime:        l.startTime,
		EndTime:          end,
		DurationSeconds:  end.Sub(l.startTime).Seconds(),
	}
}

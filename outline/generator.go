package outline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/index"
	"github.com/poiesic/scrivener/retry"
	"github.com/poiesic/scrivener/usage"
)

const (
	defaultContextChunks = 8
	defaultCallTimeout   = 2 * time.Minute
)

// Generator plans a document outline from background context and
// retrieved source material.
type Generator struct {
	retriever     *index.Retriever
	completer     ai.Completer
	ledger        *usage.Ledger
	policy        retry.Policy
	contextChunks int
	callTimeout   time.Duration
	temperature   float64
	logger        *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithContextChunks sets how many retrieved chunks feed the planning
// prompt. Default is 8.
func WithContextChunks(k int) Option {
	return func(g *Generator) error {
		if k < 1 {
			return fmt.Errorf("context chunks must be positive, got %d", k)
		}
		g.contextChunks = k
		return nil
	}
}

// WithCallTimeout bounds each planning call attempt.
// Default is 2 minutes.
func WithCallTimeout(d time.Duration) Option {
	return func(g *Generator) error {
		if d <= 0 {
			return fmt.Errorf("call timeout must be positive, got %s", d)
		}
		g.callTimeout = d
		return nil
	}
}

// WithTemperature sets the sampling temperature for the planning call.
func WithTemperature(temperature float64) Option {
	return func(g *Generator) error {
		g.temperature = temperature
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGenerator creates a new outline generator.
func NewGenerator(
	retriever *index.Retriever,
	completer ai.Completer,
	ledger *usage.Ledger,
	policy retry.Policy,
	opts ...Option,
) (*Generator, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}

	g := &Generator{
		retriever:     retriever,
		completer:     completer,
		ledger:        ledger,
		policy:        policy,
		contextChunks: defaultContextChunks,
		callTimeout:   defaultCallTimeout,
		temperature:   ai.DefaultTemperature,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Generate produces the document outline. Retrieval failures and empty
// retrieval results degrade the planning context but do not fail the
// call; an unusable model response substitutes the default outline.
// Exhausting retries on the model call is fatal and reported as
// ErrGeneration.
func (g *Generator) Generate(ctx context.Context, background core.Background) (Result, error) {
	if err := core.ValidateBackground(background); err != nil {
		return Result{}, err
	}

	query := planningQuery(background)
	chunks, err := g.retriever.Search(ctx, query, g.contextChunks)
	if err != nil {
		g.logger.Warn("planning retrieval failed, continuing without context", "err", err)
		chunks = nil
	}
	if len(chunks) == 0 {
		g.logger.Warn("no planning context retrieved", "query", query)
	}

	req := ai.CompletionRequest{
		System:      outlineSystemPrompt,
		Prompt:      buildOutlinePrompt(background, chunks),
		Temperature: g.temperature,
	}

	var completion *ai.Completion
	err = g.policy.DoTimed(ctx, g.callTimeout, func(callCtx context.Context) error {
		var callErr error
		completion, callErr = g.completer.Complete(callCtx, req)
		return callErr
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	g.ledger.Record(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	parsed, ok := Parse(completion.Text)
	if !ok {
		g.logger.Warn("outline response unusable, substituting default outline",
			"responseLength", len(completion.Text))
		return Result{Outline: DefaultOutline(), Source: SourceFallback}, nil
	}

	g.logger.Info("outline generated", "sections", len(parsed.Sections))
	return Result{Outline: parsed, Source: SourceParsed}, nil
}

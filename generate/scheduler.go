package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/citations"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/index"
	"github.com/poiesic/scrivener/retry"
	"github.com/poiesic/scrivener/storage"
	"github.com/poiesic/scrivener/usage"
)

const (
	defaultWorkers     = 8
	defaultRetrievalK  = 6
	defaultCallTimeout = 2 * time.Minute
)

// Scheduler runs the section fan-out: it expands an outline into tasks,
// dispatches them all onto a bounded worker pool, and fans the results
// back in as outline-ordered section records.
type Scheduler struct {
	retriever   *index.Retriever
	completer   ai.Completer
	queryCache  storage.QueryCache
	ledger      *usage.Ledger
	policy      retry.Policy
	pool        *ants.Pool
	workers     int
	retrievalK  int
	callTimeout time.Duration
	temperature float64
	logger      *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler) error

// WithWorkers bounds the number of in-flight tasks, and with them the
// number of concurrent external calls. Default is 8.
func WithWorkers(n int) Option {
	return func(s *Scheduler) error {
		if n < 1 {
			return fmt.Errorf("workers must be positive, got %d", n)
		}
		s.workers = n
		return nil
	}
}

// WithRetrievalK sets how many chunks each search query contributes to a
// task's local context. Default is 6.
func WithRetrievalK(k int) Option {
	return func(s *Scheduler) error {
		if k < 1 {
			return fmt.Errorf("retrieval k must be positive, got %d", k)
		}
		s.retrievalK = k
		return nil
	}
}

// WithCallTimeout sets the timeout applied to each model call attempt.
// Default is 2 minutes.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Scheduler) error {
		if d <= 0 {
			return fmt.Errorf("call timeout must be positive, got %s", d)
		}
		s.callTimeout = d
		return nil
	}
}

// WithTemperature sets the sampling temperature for generation calls.
func WithTemperature(temperature float64) Option {
	return func(s *Scheduler) error {
		s.temperature = temperature
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScheduler creates a new fan-out scheduler.
func NewScheduler(
	retriever *index.Retriever,
	completer ai.Completer,
	queryCache storage.QueryCache,
	ledger *usage.Ledger,
	policy retry.Policy,
	opts ...Option,
) (*Scheduler, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if queryCache == nil {
		return nil, ErrQueryCacheRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}

	s := &Scheduler{
		retriever:   retriever,
		completer:   completer,
		queryCache:  queryCache,
		ledger:      ledger,
		policy:      policy,
		workers:     defaultWorkers,
		retrievalK:  defaultRetrievalK,
		callTimeout: defaultCallTimeout,
		temperature: ai.DefaultTemperature,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Release releases the worker pool. The scheduler should not be used
// after calling Release.
func (s *Scheduler) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Run generates every artifact for every outline section and returns the
// section records in outline order, regardless of task completion order.
// A task that exhausts its retries, or that cannot start before ctx is
// done, yields a degraded placeholder; Run itself fails only on an empty
// outline or a dead worker pool.
func (s *Scheduler) Run(ctx context.Context, background core.Background, o core.Outline) ([]core.SectionRecord, *Report, error) {
	if o.IsEmpty() {
		return nil, nil, core.ErrEmptyOutline
	}

	tasks := planTasks(o)
	s.logger.Info("dispatching section tasks",
		"sections", len(o.Sections), "tasks", len(tasks), "workers", s.workers)

	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			s.runTask(ctx, t, background)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, nil, fmt.Errorf("submitting section task: %w", err)
		}
	}
	wg.Wait()

	records := make([]core.SectionRecord, len(o.Sections))
	for i, section := range o.Sections {
		records[i] = core.SectionRecord{
			Title:     section.Title,
			Artifacts: make(map[core.ArtifactType]string),
		}
	}

	report := &Report{Tasks: make([]TaskStatus, 0, len(tasks))}
	for _, t := range tasks {
		records[t.sectionIdx].Artifacts[t.artifact] = t.result
		report.Tasks = append(report.Tasks, TaskStatus{
			Section:  t.section.Title,
			Artifact: t.artifact,
			State:    t.state,
		})
		switch t.state {
		case core.TaskDone:
			report.Done++
		default:
			report.Degraded++
		}
	}

	s.logger.Info("section fan-out complete", "done", report.Done, "degraded", report.Degraded)
	return records, report, nil
}

// runTask drives one task through its lifecycle. Failures mark the task
// degraded; they never propagate to sibling tasks.
func (s *Scheduler) runTask(ctx context.Context, t *task, background core.Background) {
	if ctx.Err() != nil {
		t.fail("run deadline exceeded before task started")
		return
	}

	t.state = core.TaskRetrieving
	queries := s.queriesForTitle(ctx, t.section.Title)
	localContext := s.gatherContext(ctx, queries)

	t.state = core.TaskGenerating
	generated, err := s.complete(ctx, ai.CompletionRequest{
		System:      sectionSystemPrompt,
		Prompt:      buildArtifactPrompt(background, t.section, t.artifact, localContext),
		Temperature: s.temperature,
	})
	if err != nil {
		s.logger.Error("artifact generation failed",
			"section", t.section.Title, "artifact", t.artifact.String(), "err", err)
		t.fail(err.Error())
		return
	}

	t.state = core.TaskReviewing
	reviewed, err := s.complete(ctx, ai.CompletionRequest{
		System:      reviewSystemPrompt,
		Prompt:      buildReviewPrompt(t.section, t.artifact, generated.Text),
		Temperature: s.temperature,
	})
	if err != nil {
		s.logger.Error("artifact review failed",
			"section", t.section.Title, "artifact", t.artifact.String(), "err", err)
		t.fail(err.Error())
		return
	}

	t.result = citations.Normalize(reviewed.Text)
	t.state = core.TaskDone
}

// gatherContext runs every query against the index and concatenates the
// deduplicated chunk texts. Search failures and empty results degrade the
// context, not the task.
func (s *Scheduler) gatherContext(ctx context.Context, queries []string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, query := range queries {
		chunks, err := s.retriever.Search(ctx, query, s.retrievalK)
		if err != nil {
			s.logger.Warn("context retrieval failed", "query", query, "err", err)
			continue
		}
		for _, sc := range chunks {
			key := fmt.Sprintf("%s#%d", sc.Chunk.SourcePath, sc.Chunk.SequenceIndex)
			if seen[key] {
				continue
			}
			seen[key] = true
			parts = append(parts, sc.Chunk.Text)
		}
	}
	return strings.Join(parts, "\n---\n")
}

// complete performs one model call under the retry policy with a per
// attempt timeout, recording usage only for calls that finished. An
// attempt cut off by its own timeout is retried; cancellation of the
// run's context is not.
func (s *Scheduler) complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	var completion *ai.Completion
	err := s.policy.DoTimed(ctx, s.callTimeout, func(callCtx context.Context) error {
		var callErr error
		completion, callErr = s.completer.Complete(callCtx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Record(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	return completion, nil
}

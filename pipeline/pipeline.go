package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/assemble"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/generate"
	"github.com/poiesic/scrivener/index"
	"github.com/poiesic/scrivener/ingest"
	"github.com/poiesic/scrivener/outline"
	"github.com/poiesic/scrivener/retry"
	"github.com/poiesic/scrivener/storage"
	"github.com/poiesic/scrivener/usage"
)

// Pipeline owns the long-lived collaborators of generation runs.
type Pipeline struct {
	provider      ai.AIProvider
	indexCache    storage.IndexCache
	queryCache    storage.QueryCache
	artifactStore storage.ArtifactStore
	policy        retry.Policy
	config        *Config
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(p *Pipeline) error {
		if config == nil {
			return fmt.Errorf("config must not be nil")
		}
		if err := config.Validate(); err != nil {
			return err
		}
		p.config = config
		return nil
	}
}

// WithRetryPolicy replaces the default retry policy applied to every
// external call.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(p *Pipeline) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		p.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline over the given provider and stores.
func NewPipeline(
	provider ai.AIProvider,
	indexCache storage.IndexCache,
	queryCache storage.QueryCache,
	artifactStore storage.ArtifactStore,
	opts ...Option,
) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if indexCache == nil {
		return nil, ErrIndexCacheRequired
	}
	if queryCache == nil {
		return nil, ErrQueryCacheRequired
	}
	if artifactStore == nil {
		return nil, ErrArtifactStoreRequired
	}

	p := &Pipeline{
		provider:      provider,
		indexCache:    indexCache,
		queryCache:    queryCache,
		artifactStore: artifactStore,
		policy:        retry.DefaultPolicy(),
		config:        DefaultConfig(),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Report is the observable tally of one run.
type Report struct {
	RunID         string
	Chunks        int
	Skipped       []ingest.SkippedFile
	IndexCacheHit bool
	OutlineSource outline.Source
	TasksDone     int
	TasksDegraded int
	Artifact      *core.ArtifactRecord // nil when persistence failed
	PersistErr    error                // warning only; the document is still returned
	Usage         core.UsageSnapshot
}

// GenerateOutline ingests the corpus and produces the document outline
// without generating section content.
func (p *Pipeline) GenerateOutline(ctx context.Context, paths []string, background core.Background) (core.Outline, *Report, error) {
	runID := uuid.NewString()
	logger := p.logger.With("runId", runID)
	ledger := usage.NewLedger(p.config.Rates)
	report := &Report{RunID: runID}

	retriever, err := p.prepareRetriever(ctx, paths, report, logger)
	if err != nil {
		return core.Outline{}, report, err
	}

	result, err := p.generateOutline(ctx, retriever, ledger, background, logger)
	if err != nil {
		return core.Outline{}, report, err
	}

	report.OutlineSource = result.Source
	report.Usage = ledger.Snapshot()
	return result.Outline, report, nil
}

// GenerateFullDocument runs the whole pipeline: ingest, index, outline
// (unless one is supplied), section fan-out, assembly and persistence.
// Persistence failures are reported in the Report, not as an error; the
// assembled document is returned either way.
func (p *Pipeline) GenerateFullDocument(ctx context.Context, paths []string, background core.Background, existing *core.Outline) (*core.GeneratedDocument, *Report, error) {
	runID := uuid.NewString()
	logger := p.logger.With("runId", runID)
	ledger := usage.NewLedger(p.config.Rates)
	report := &Report{RunID: runID}

	if p.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.RunTimeout)
		defer cancel()
	}

	started := time.Now()
	logger.Info("generation run started", "files", len(paths), "title", background.Title)

	retriever, err := p.prepareRetriever(ctx, paths, report, logger)
	if err != nil {
		return nil, report, err
	}

	var o core.Outline
	if existing != nil && !existing.IsEmpty() {
		o = *existing
		report.OutlineSource = outline.SourceProvided
	} else {
		result, err := p.generateOutline(ctx, retriever, ledger, background, logger)
		if err != nil {
			return nil, report, err
		}
		o = result.Outline
		report.OutlineSource = result.Source
	}

	scheduler, err := generate.NewScheduler(
		retriever,
		p.provider.Completer(),
		p.queryCache,
		ledger,
		p.policy,
		generate.WithWorkers(p.config.Workers),
		generate.WithRetrievalK(p.config.RetrievalK),
		generate.WithCallTimeout(p.config.CallTimeout),
		generate.WithTemperature(p.config.Temperature),
		generate.WithLogger(logger),
	)
	if err != nil {
		return nil, report, err
	}
	defer scheduler.Release()

	records, genReport, err := scheduler.Run(ctx, background, o)
	if err != nil {
		return nil, report, err
	}
	report.TasksDone = genReport.Done
	report.TasksDegraded = genReport.Degraded

	report.Usage = ledger.Snapshot()
	doc := assemble.Assemble(o, records, report.Usage, p.config.Author)

	persister, err := assemble.NewPersister(p.config.OutputDir, p.artifactStore, assemble.WithLogger(logger))
	if err != nil {
		report.PersistErr = err
		logger.Warn("persistence unavailable, returning in-memory document", "err", err)
		return doc, report, nil
	}
	record, err := persister.Persist(ctx, doc, runID)
	if err != nil {
		report.PersistErr = err
		logger.Warn("failed to persist document, returning in-memory document", "err", err)
		return doc, report, nil
	}
	report.Artifact = record

	logger.Info("generation run complete",
		"sections", len(records),
		"degraded", report.TasksDegraded,
		"totalTokens", report.Usage.TotalTokens,
		"elapsed", time.Since(started).Round(time.Millisecond))
	return doc, report, nil
}

// prepareRetriever ingests the corpus and builds or loads the semantic
// index for it.
func (p *Pipeline) prepareRetriever(ctx context.Context, paths []string, report *Report, logger *slog.Logger) (*index.Retriever, error) {
	ingestor, err := ingest.NewIngestor(
		ingest.WithChunkSize(p.config.ChunkSize),
		ingest.WithChunkOverlap(p.config.ChunkOverlap),
		ingest.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	ingestReport, err := ingestor.Ingest(paths)
	if err != nil {
		return nil, err
	}
	report.Chunks = len(ingestReport.Chunks)
	report.Skipped = ingestReport.Skipped

	builder, err := index.NewBuilder(
		p.indexCache,
		p.provider.Embedder(),
		p.policy,
		index.WithBatchSize(p.config.EmbedBatchSize),
		index.WithCallTimeout(p.config.CallTimeout),
		index.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	ix, cacheHit, err := builder.BuildOrLoad(ctx, ingestReport.Chunks, ingestReport.ContentHash)
	if err != nil {
		return nil, err
	}
	report.IndexCacheHit = cacheHit

	return index.NewRetriever(ix, p.provider.Embedder(), p.policy,
		index.WithSearchTimeout(p.config.CallTimeout)), nil
}

func (p *Pipeline) generateOutline(ctx context.Context, retriever *index.Retriever, ledger *usage.Ledger, background core.Background, logger *slog.Logger) (outline.Result, error) {
	generator, err := outline.NewGenerator(
		retriever,
		p.provider.Completer(),
		ledger,
		p.policy,
		outline.WithCallTimeout(p.config.CallTimeout),
		outline.WithTemperature(p.config.Temperature),
		outline.WithLogger(logger),
	)
	if err != nil {
		return outline.Result{}, err
	}
	return generator.Generate(ctx, background)
}

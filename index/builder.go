package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/retry"
	"github.com/poiesic/scrivener/storage"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize        = 64
	defaultBuildConcurrency = 4
	defaultCallTimeout      = 2 * time.Minute
)

// Builder constructs semantic indices, consulting the persisted cache first.
type Builder struct {
	cache       storage.IndexCache
	embedder    ai.Embedder
	policy      retry.Policy
	batchSize   int
	concurrency int
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithBatchSize sets the number of chunks embedded per service call.
// Default is 64.
func WithBatchSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		b.batchSize = size
		return nil
	}
}

// WithConcurrency sets how many embedding batches may be in flight at once.
// Default is 4.
func WithConcurrency(n int) Option {
	return func(b *Builder) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		b.concurrency = n
		return nil
	}
}

// WithCallTimeout bounds each embedding call attempt during a build.
// Default is 2 minutes.
func WithCallTimeout(d time.Duration) Option {
	return func(b *Builder) error {
		if d <= 0 {
			return fmt.Errorf("call timeout must be positive, got %s", d)
		}
		b.callTimeout = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new index builder.
func NewBuilder(cache storage.IndexCache, embedder ai.Embedder, policy retry.Policy, opts ...Option) (*Builder, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	b := &Builder{
		cache:       cache,
		embedder:    embedder,
		policy:      policy,
		batchSize:   defaultBatchSize,
		concurrency: defaultBuildConcurrency,
		callTimeout: defaultCallTimeout,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// BuildOrLoad returns the index for the given corpus, loading it from the
// cache when a snapshot exists under the content hash and building it
// otherwise. The returned bool reports whether the cache was hit; a hit
// performs zero embedding calls.
//
// A batch whose retries are exhausted is dropped from the index; the build
// fails with ErrIndexBuild only when every batch failed. The cache write
// after a successful build is best-effort: a failure is logged and the
// fresh index returned anyway.
func (b *Builder) BuildOrLoad(ctx context.Context, chunks []core.Chunk, hash core.ContentHash) (*Index, bool, error) {
	snapshot, err := b.cache.LoadSnapshot(ctx, hash)
	if err == nil {
		b.logger.Info("index cache hit", "contentHash", string(hash), "entries", len(snapshot.Entries))
		return FromSnapshot(snapshot), true, nil
	}
	if err != storage.ErrNotFound {
		b.logger.Warn("index cache lookup failed, rebuilding", "contentHash", string(hash), "err", err)
	}

	ix, err := b.build(ctx, chunks, hash)
	if err != nil {
		return nil, false, err
	}

	if saveErr := b.cache.SaveSnapshot(ctx, ix.Snapshot()); saveErr != nil {
		b.logger.Warn("failed to persist index snapshot", "contentHash", string(hash), "err", saveErr)
	}

	return ix, false, nil
}

func (b *Builder) build(ctx context.Context, chunks []core.Chunk, hash core.ContentHash) (*Index, error) {
	if len(chunks) == 0 {
		return &Index{contentHash: hash}, nil
	}

	type batch struct {
		start  int
		chunks []core.Chunk
	}

	batches := make([]batch, 0, (len(chunks)+b.batchSize-1)/b.batchSize)
	for start := 0; start < len(chunks); start += b.batchSize {
		end := min(start+b.batchSize, len(chunks))
		batches = append(batches, batch{start: start, chunks: chunks[start:end]})
	}

	// Entries are written at fixed offsets so chunk order survives
	// whatever order the batches complete in.
	entries := make([]core.IndexEntry, len(chunks))
	var mu sync.Mutex
	var batchErrs []error
	succeeded := make([]bool, len(chunks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency)

	for _, bt := range batches {
		group.Go(func() error {
			texts := make([]string, len(bt.chunks))
			for i, chunk := range bt.chunks {
				texts[i] = chunk.Text
			}

			var vectors [][]float32
			err := b.policy.DoTimed(groupCtx, b.callTimeout, func(callCtx context.Context) error {
				var embedErr error
				vectors, embedErr = b.embedder.EmbedTexts(callCtx, texts)
				return embedErr
			})
			if err != nil {
				b.logger.Error("embedding batch failed", "start", bt.start, "size", len(bt.chunks), "err", err)
				mu.Lock()
				batchErrs = append(batchErrs, err)
				mu.Unlock()
				// A failed batch degrades the index; the build only
				// fails if no batch succeeds.
				return nil
			}
			if len(vectors) != len(bt.chunks) {
				mu.Lock()
				batchErrs = append(batchErrs, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(bt.chunks), len(vectors)))
				mu.Unlock()
				return nil
			}

			for i, chunk := range bt.chunks {
				entries[bt.start+i] = core.IndexEntry{
					Vector: NormalizeVector(vectors[i]),
					Chunk:  chunk,
				}
				succeeded[bt.start+i] = true
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept := make([]core.IndexEntry, 0, len(entries))
	for i, ok := range succeeded {
		if ok {
			kept = append(kept, entries[i])
		}
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: %d batches failed", ErrIndexBuild, len(batchErrs))
	}
	if len(batchErrs) > 0 {
		b.logger.Warn("index built with degraded coverage",
			"indexed", len(kept), "total", len(chunks), "failedBatches", len(batchErrs))
	}

	b.logger.Info("index built", "contentHash", string(hash), "entries", len(kept))
	return &Index{contentHash: hash, entries: kept}, nil
}

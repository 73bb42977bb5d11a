package index

import (
	"context"
	"sort"
	"time"

	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/retry"
)

// Index is an in-memory semantic index over embedded chunks.
// It is read-only after construction and safe for unsynchronized sharing
// between concurrent readers.
type Index struct {
	contentHash core.ContentHash
	entries     []core.IndexEntry
}

// FromSnapshot reconstructs an index from its persisted form.
func FromSnapshot(snapshot *core.IndexSnapshot) *Index {
	return &Index{
		contentHash: snapshot.ContentHash,
		entries:     snapshot.Entries,
	}
}

// Snapshot returns the persistable form of the index.
func (ix *Index) Snapshot() *core.IndexSnapshot {
	return &core.IndexSnapshot{
		ContentHash: ix.contentHash,
		Entries:     ix.entries,
		CreatedAt:   time.Now().UTC(),
	}
}

// ContentHash returns the hash of the corpus the index was built from.
func (ix *Index) ContentHash() core.ContentHash {
	return ix.contentHash
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// TopK returns the k chunks most similar to the query vector, ranked by
// score descending. Ties keep chunk order. Returns an empty slice, not an
// error, when the index has no entries.
func (ix *Index) TopK(vector []float32, k int) []core.ScoredChunk {
	if k <= 0 || len(ix.entries) == 0 {
		return []core.ScoredChunk{}
	}

	query := NormalizeVector(vector)
	scored := make([]core.ScoredChunk, 0, len(ix.entries))
	for _, entry := range ix.entries {
		scored = append(scored, core.ScoredChunk{
			Chunk: entry.Chunk,
			Score: DotProduct(query, entry.Vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Retriever pairs an index with an embedder so callers can search by text.
type Retriever struct {
	index       *Index
	embedder    ai.Embedder
	policy      retry.Policy
	callTimeout time.Duration
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithSearchTimeout bounds each embedding attempt made by Search.
// Default is 2 minutes.
func WithSearchTimeout(d time.Duration) RetrieverOption {
	return func(r *Retriever) {
		r.callTimeout = d
	}
}

// NewRetriever creates a retriever over the given index.
func NewRetriever(ix *Index, embedder ai.Embedder, policy retry.Policy, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		index:       ix,
		embedder:    embedder,
		policy:      policy,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search embeds the query under the retry policy, each attempt bounded by
// the search timeout, and returns the top-k similar chunks. An empty
// result is degraded input for the caller, not an error.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]core.ScoredChunk, error) {
	var vector []float32
	err := r.policy.DoTimed(ctx, r.callTimeout, func(callCtx context.Context) error {
		var embedErr error
		vector, embedErr = r.embedder.EmbedText(callCtx, query)
		return embedErr
	})
	if err != nil {
		return nil, err
	}
	return r.index.TopK(vector, k), nil
}

// Index returns the underlying index.
func (r *Retriever) Index() *Index {
	return r.index
}

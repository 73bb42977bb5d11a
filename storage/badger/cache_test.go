package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (storage.IndexCache, storage.QueryCache, storage.ArtifactStore) {
	t.Helper()
	indexCache, queryCache, artifacts, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return indexCache, queryCache, artifacts
}

func TestIndexCacheRoundTrip(t *testing.T) {
	indexCache, _, _ := newTestRepos(t)
	ctx := context.Background()

	hash := core.HashContent([]byte("corpus bytes"))
	snapshot := &core.IndexSnapshot{
		ContentHash: hash,
		Entries: []core.IndexEntry{
			{
				Vector: []float32{0.5, 0.5, 0.7071},
				Chunk:  core.Chunk{Text: "chunk one", SourcePath: "a.txt", SequenceIndex: 0},
			},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	require.NoError(t, indexCache.SaveSnapshot(ctx, snapshot))

	loaded, err := indexCache.LoadSnapshot(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ContentHash, loaded.ContentHash)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, snapshot.Entries[0].Chunk, loaded.Entries[0].Chunk)
	assert.Equal(t, snapshot.Entries[0].Vector, loaded.Entries[0].Vector)
}

func TestIndexCacheMiss(t *testing.T) {
	indexCache, _, _ := newTestRepos(t)

	_, err := indexCache.LoadSnapshot(context.Background(), core.HashContent([]byte("never stored")))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIndexCacheOverwrite(t *testing.T) {
	indexCache, _, _ := newTestRepos(t)
	ctx := context.Background()
	hash := core.HashContent([]byte("same corpus"))

	first := &core.IndexSnapshot{ContentHash: hash, Entries: []core.IndexEntry{
		{Vector: []float32{1}, Chunk: core.Chunk{Text: "old", SourcePath: "a.txt"}},
	}}
	second := &core.IndexSnapshot{ContentHash: hash, Entries: []core.IndexEntry{
		{Vector: []float32{0}, Chunk: core.Chunk{Text: "new", SourcePath: "a.txt"}},
	}}

	require.NoError(t, indexCache.SaveSnapshot(ctx, first))
	require.NoError(t, indexCache.SaveSnapshot(ctx, second))

	loaded, err := indexCache.LoadSnapshot(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Entries[0].Chunk.Text)
}

func TestQueryCacheRoundTrip(t *testing.T) {
	_, queryCache, _ := newTestRepos(t)
	ctx := context.Background()

	qs := &core.QuerySet{
		Title:   "Incident Reporting",
		Queries: []string{"incident reporting process", "who to notify", "report deadlines"},
	}
	require.NoError(t, queryCache.SaveQuerySet(ctx, qs))

	loaded, err := queryCache.LoadQuerySet(ctx, "Incident Reporting")
	require.NoError(t, err)
	assert.Equal(t, qs.Queries, loaded.Queries)
	assert.False(t, loaded.Timestamp.IsZero(), "save populates the timestamp")
}

func TestQueryCacheMissAndTitleIsolation(t *testing.T) {
	_, queryCache, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, queryCache.SaveQuerySet(ctx, &core.QuerySet{
		Title:   "Summary",
		Queries: []string{"key takeaways"},
	}))

	_, err := queryCache.LoadQuerySet(ctx, "summary")
	assert.ErrorIs(t, err, storage.ErrNotFound, "titles are case-sensitive cache keys")
}

func TestArtifactStore(t *testing.T) {
	_, _, artifacts := newTestRepos(t)
	ctx := context.Background()

	older := &core.ArtifactRecord{
		ID:           "20260314_092653",
		RunID:        "run-1",
		Author:       "trainer@example.com",
		DocumentPath: "out/training_doc_20260314_092653.md",
		UsagePath:    "out/usage_stats_20260314_092653.json",
		CreatedAt:    time.Now().UTC().Add(-time.Hour),
	}
	newer := &core.ArtifactRecord{
		ID:        "20260314_103000",
		RunID:     "run-2",
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, artifacts.RecordArtifact(ctx, older))
	require.NoError(t, artifacts.RecordArtifact(ctx, newer))

	got, err := artifacts.GetArtifact(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "trainer@example.com", got.Author)

	_, err = artifacts.GetArtifact(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := artifacts.ListArtifacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "most recent first")
}

func TestClosedBackend(t *testing.T) {
	indexCache, queryCache, artifacts, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	ctx := context.Background()
	_, err = indexCache.LoadSnapshot(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = queryCache.LoadQuerySet(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	err = artifacts.RecordArtifact(ctx, &core.ArtifactRecord{ID: "x"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

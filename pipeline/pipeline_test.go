package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/ai/mock"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/outline"
	"github.com/poiesic/scrivener/retry"
	badgerstore "github.com/poiesic/scrivener/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func writeCorpus(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()

	one := filepath.Join(dir, "handbook.txt")
	require.NoError(t, os.WriteFile(one, []byte(
		"Welcome to the company. Every new hire completes orientation during "+
			"the first week. Orientation covers workplace safety, badge access, "+
			"and how to reach the facilities team."), 0o644))

	two := filepath.Join(dir, "safety.txt")
	require.NoError(t, os.WriteFile(two, []byte(
		"Safety basics: wear protective equipment in the lab, report every "+
			"incident to your supervisor, and keep emergency exits clear at all "+
			"times."), 0o644))

	return []string{one, two}
}

// scriptedCompleter routes calls by prompt shape: planning calls get a
// fixed outline, query-derivation calls get a fixed query list, and
// everything else gets plain section content.
func scriptedCompleter(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	usage := ai.Usage{PromptTokens: 12, CompletionTokens: 24}
	switch {
	case strings.Contains(req.Prompt, "Plan the outline"):
		return &ai.Completion{
			Text:  "1. Welcome Aboard\n2. Safety Basics\n3. Summary",
			Usage: usage,
		}, nil
	case strings.Contains(req.Prompt, "Section title:"):
		return &ai.Completion{
			Text:  "orientation schedule\nsafety equipment\nincident reporting",
			Usage: usage,
		}, nil
	default:
		return &ai.Completion{
			Text:  "Generated training material grounded in the excerpts [1].",
			Usage: usage,
		}, nil
	}
}

func newTestPipeline(t *testing.T, configure func(*Config)) (*Pipeline, *mock.MockProvider) {
	t.Helper()
	indexCache, queryCache, artifactStore, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockCompleter().CompleteFunc = scriptedCompleter

	config := DefaultConfig()
	config.ChunkSize = 120
	config.ChunkOverlap = 20
	config.EmbedBatchSize = 4
	config.Workers = 4
	config.OutputDir = filepath.Join(t.TempDir(), "out")
	config.Author = "dev@example.com"
	if configure != nil {
		configure(config)
	}

	p, err := NewPipeline(provider, indexCache, queryCache, artifactStore,
		WithConfig(config),
		WithRetryPolicy(fastPolicy()),
	)
	require.NoError(t, err)
	return p, provider
}

func TestGenerateOutlineEndToEnd(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	paths := writeCorpus(t)

	o, report, err := p.GenerateOutline(context.Background(), paths, core.Background{Title: "Orientation"})
	require.NoError(t, err)
	require.False(t, o.IsEmpty())
	assert.Equal(t, []string{"Welcome Aboard", "Safety Basics", "Summary"}, o.Titles())
	assert.Equal(t, outline.SourceParsed, report.OutlineSource)
	assert.Positive(t, report.Chunks)
	assert.Empty(t, report.Skipped)
	assert.Positive(t, report.Usage.TotalTokens)
}

func TestGenerateFullDocumentEndToEnd(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	paths := writeCorpus(t)

	doc, report, err := p.GenerateFullDocument(context.Background(), paths, core.Background{Title: "Orientation"}, nil)
	require.NoError(t, err)
	require.NotNil(t, doc)

	for _, title := range doc.Outline.Titles() {
		assert.Contains(t, doc.Markdown, title)
	}
	for _, record := range doc.Sections {
		quiz := record.Artifacts[core.ArtifactQuiz]
		assert.NotEmpty(t, quiz, "section %q quiz", record.Title)
		assert.NotContains(t, quiz, "[generation failed:", "section %q quiz", record.Title)
	}

	assert.Zero(t, report.TasksDegraded)
	assert.Positive(t, report.TasksDone)
	assert.NoError(t, report.PersistErr)
	require.NotNil(t, report.Artifact)

	written, err := os.ReadFile(report.Artifact.DocumentPath)
	require.NoError(t, err)
	assert.Equal(t, doc.Markdown, string(written))
	_, err = os.Stat(report.Artifact.UsagePath)
	assert.NoError(t, err)

	assert.Equal(t, "dev@example.com", doc.Author)
	assert.Positive(t, doc.Usage.TotalTokens)
}

func TestSecondRunHitsIndexCache(t *testing.T) {
	p, provider := newTestPipeline(t, nil)
	paths := writeCorpus(t)
	background := core.Background{Title: "Orientation"}

	_, report, err := p.GenerateOutline(context.Background(), paths, background)
	require.NoError(t, err)
	require.False(t, report.IndexCacheHit)

	provider.GetMockEmbedder().Reset()
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		t.Fatal("index rebuild must not embed chunks on a cache hit")
		return nil, nil
	}

	_, report, err = p.GenerateOutline(context.Background(), paths, background)
	require.NoError(t, err)
	assert.True(t, report.IndexCacheHit)
}

func TestFullDocumentWithProvidedOutline(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	paths := writeCorpus(t)

	existing := &core.Outline{Sections: []core.Section{
		{Title: "Provided Topic", Level: 1},
		{Title: "Provided Summary", Level: 1},
	}}

	doc, _, err := p.GenerateFullDocument(context.Background(), paths, core.Background{Title: "Orientation"}, existing)
	require.NoError(t, err)
	assert.Equal(t, existing.Titles(), doc.Outline.Titles())
	assert.Contains(t, doc.Markdown, "Provided Topic")
}

func TestFullDocumentPersistFailureStillReturnsDocument(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	p, _ := newTestPipeline(t, func(c *Config) {
		// A regular file where the output directory should be makes
		// persistence fail.
		c.OutputDir = blocker
	})
	paths := writeCorpus(t)

	doc, report, err := p.GenerateFullDocument(context.Background(), paths, core.Background{Title: "Orientation"}, nil)
	require.NoError(t, err, "persistence failure must not fail the run")
	require.NotNil(t, doc)
	assert.NotEmpty(t, doc.Markdown)
	assert.Error(t, report.PersistErr)
	assert.Nil(t, report.Artifact)
}

func TestEmptyCorpusIsFatal(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	_, _, err := p.GenerateOutline(context.Background(), []string{empty}, core.Background{Title: "Orientation"})
	assert.ErrorIs(t, err, core.ErrEmptyCorpus)
}

func TestNewPipelineValidation(t *testing.T) {
	indexCache, queryCache, artifactStore, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	provider := mock.NewMockProvider()

	_, err = NewPipeline(nil, indexCache, queryCache, artifactStore)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewPipeline(provider, nil, queryCache, artifactStore)
	assert.ErrorIs(t, err, ErrIndexCacheRequired)

	_, err = NewPipeline(provider, indexCache, nil, artifactStore)
	assert.ErrorIs(t, err, ErrQueryCacheRequired)

	_, err = NewPipeline(provider, indexCache, queryCache, nil)
	assert.ErrorIs(t, err, ErrArtifactStoreRequired)

	bad := DefaultConfig()
	bad.Workers = 0
	_, err = NewPipeline(provider, indexCache, queryCache, artifactStore, WithConfig(bad))
	assert.Error(t, err)
}

package generate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/ai/mock"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/index"
	"github.com/poiesic/scrivener/retry"
	"github.com/poiesic/scrivener/storage"
	badgerstore "github.com/poiesic/scrivener/storage/badger"
	"github.com/poiesic/scrivener/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func testOutline() core.Outline {
	return core.Outline{Sections: []core.Section{
		{Title: "Workplace Safety", Level: 1},
		{Title: "Incident Response", Level: 1},
		{Title: "Equipment Care", Level: 1},
		{Title: "Summary", Level: 1},
	}}
}

func testRetriever() *index.Retriever {
	snapshot := &core.IndexSnapshot{
		ContentHash: "test",
		Entries: []core.IndexEntry{
			{Vector: index.NormalizeVector([]float32{1, 0}), Chunk: core.Chunk{Text: "wear protective gear", SourcePath: "a.txt", SequenceIndex: 0}},
			{Vector: index.NormalizeVector([]float32{0, 1}), Chunk: core.Chunk{Text: "report all incidents", SourcePath: "a.txt", SequenceIndex: 1}},
		},
	}
	return index.NewRetriever(index.FromSnapshot(snapshot), mock.NewMockEmbedder(), fastPolicy())
}

// sectionEcho answers query-derivation calls with a fixed query list and
// every other call with text naming the section, so tests can assert on
// routing.
func sectionEcho(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	text := "generated content"
	if req.System == querySystemPrompt {
		text = "safety rules\nprotective equipment\nreporting procedures"
	}
	return &ai.Completion{
		Text:  text,
		Usage: ai.Usage{PromptTokens: 10, CompletionTokens: 20},
	}, nil
}

func newTestScheduler(t *testing.T, completer *mock.MockCompleter, opts ...Option) (*Scheduler, *usage.Ledger, storage.QueryCache) {
	t.Helper()
	_, queryCache, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ledger := usage.NewLedger(usage.DefaultRates())
	s, err := NewScheduler(testRetriever(), completer, queryCache, ledger, fastPolicy(), opts...)
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s, ledger, queryCache
}

func TestRunProducesAllArtifactsInOutlineOrder(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = sectionEcho
	s, _, _ := newTestScheduler(t, completer)

	o := testOutline()
	records, report, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, o)
	require.NoError(t, err)
	require.Len(t, records, 4)

	for i, record := range records {
		assert.Equal(t, o.Sections[i].Title, record.Title)
		for _, artifact := range []core.ArtifactType{core.ArtifactMain, core.ArtifactPractice, core.ArtifactCaseStudy, core.ArtifactQuiz} {
			assert.NotEmpty(t, record.Artifacts[artifact], "section %q artifact %s", record.Title, artifact)
		}
	}

	assert.Equal(t, report.Done, len(report.Tasks))
	assert.Zero(t, report.Degraded)
}

func TestRunOrderInvariantUnderRandomLatency(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		return sectionEcho(ctx, req)
	}
	s, _, _ := newTestScheduler(t, completer, WithWorkers(6))

	o := testOutline()
	records, _, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, o)
	require.NoError(t, err)

	titles := make([]string, len(records))
	for i, record := range records {
		titles[i] = record.Title
	}
	assert.Equal(t, o.Titles(), titles, "section order must equal outline order regardless of completion order")
}

func TestRunClosingMemoOnlyForTerminalSummarySection(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = sectionEcho
	s, _, _ := newTestScheduler(t, completer)

	records, _, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, testOutline())
	require.NoError(t, err)

	for _, record := range records[:3] {
		assert.NotContains(t, record.Artifacts, core.ArtifactClosingMemo, "section %q", record.Title)
	}
	assert.Contains(t, records[3].Artifacts, core.ArtifactClosingMemo)
}

func TestRunNoClosingMemoWithoutDesignatedSection(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = sectionEcho
	s, _, _ := newTestScheduler(t, completer)

	o := core.Outline{Sections: []core.Section{
		{Title: "First Topic", Level: 1},
		{Title: "Second Topic", Level: 1},
	}}
	records, _, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, o)
	require.NoError(t, err)

	for _, record := range records {
		assert.NotContains(t, record.Artifacts, core.ArtifactClosingMemo)
	}
}

func TestRunDegradedTaskDoesNotAbortSiblings(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		if req.System == sectionSystemPrompt && strings.Contains(req.Prompt, "Section: Incident Response") {
			return nil, fmt.Errorf("service unavailable")
		}
		return sectionEcho(ctx, req)
	}
	s, _, _ := newTestScheduler(t, completer)

	o := testOutline()
	records, report, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, o)
	require.NoError(t, err)

	for _, artifact := range records[1].Artifacts {
		assert.Contains(t, artifact, "[generation failed:")
	}
	for _, record := range []core.SectionRecord{records[0], records[2], records[3]} {
		assert.NotContains(t, record.Artifacts[core.ArtifactMain], "[generation failed:", "section %q", record.Title)
	}
	assert.Equal(t, 4, report.Degraded)
}

func TestRunQueryDerivationCachedAcrossRuns(t *testing.T) {
	var queryCalls atomic.Int64
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		if req.System == querySystemPrompt {
			queryCalls.Add(1)
		}
		return sectionEcho(ctx, req)
	}
	s, _, _ := newTestScheduler(t, completer)

	o := testOutline()
	_, _, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, o)
	require.NoError(t, err)
	firstRun := queryCalls.Load()
	require.Positive(t, firstRun)

	_, _, err = s.Run(context.Background(), core.Background{Title: "Orientation"}, o)
	require.NoError(t, err)
	assert.Equal(t, firstRun, queryCalls.Load(), "second run must reuse cached query sets")
}

func TestRunBoundsConcurrentCalls(t *testing.T) {
	var inFlight, peak atomic.Int64
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		current := inFlight.Add(1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return sectionEcho(ctx, req)
	}
	s, _, _ := newTestScheduler(t, completer, WithWorkers(2))

	_, _, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, testOutline())
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(2), "in-flight model calls must not exceed the worker bound")
}

func TestRunCancelledContextDegradesAllTasks(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = sectionEcho
	s, ledger, _ := newTestScheduler(t, completer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, report, err := s.Run(ctx, core.Background{Title: "Orientation"}, testOutline())
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, len(report.Tasks), report.Degraded)
	assert.Zero(t, ledger.Calls(), "abandoned calls must not record usage")
}

func TestRunEmptyOutline(t *testing.T) {
	s, _, _ := newTestScheduler(t, mock.NewMockCompleter())
	_, _, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, core.Outline{})
	assert.ErrorIs(t, err, core.ErrEmptyOutline)
}

func TestRunRecordsUsagePerSuccessfulCall(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = sectionEcho
	s, ledger, _ := newTestScheduler(t, completer)

	o := core.Outline{Sections: []core.Section{{Title: "Only Topic", Level: 1}}}
	_, _, err := s.Run(context.Background(), core.Background{Title: "Orientation"}, o)
	require.NoError(t, err)

	// 1 query derivation + 4 artifacts x (generate + review) = 9 calls.
	assert.Equal(t, 9, ledger.Calls())
	assert.EqualValues(t, 90, ledger.PromptTokens())
	assert.EqualValues(t, 180, ledger.CompletionTokens())
}

func TestPlanTasksArtifactSet(t *testing.T) {
	tasks := planTasks(testOutline())
	// 4 sections x 4 artifacts + 1 closing memo.
	assert.Len(t, tasks, 17)
	for _, task := range tasks {
		assert.Equal(t, core.TaskPending, task.state)
	}
}

func TestParseQueries(t *testing.T) {
	queries := parseQueries("1. safety gear\n- reporting rules\n\n\"escalation path\"\nextra one\nextra two\nextra three")
	assert.Equal(t, []string{"safety gear", "reporting rules", "escalation path", "extra one", "extra two"}, queries)
}

func TestIsTerminalSection(t *testing.T) {
	assert.True(t, isTerminalSection("Summary"))
	assert.True(t, isTerminalSection("Course Conclusion"))
	assert.False(t, isTerminalSection("Getting Started"))
}

package assemble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/storage"
)

// ErrStoreRequired indicates a nil artifact store was passed.
var ErrStoreRequired = errors.New("artifact store is required")

// Persister writes generated documents and their usage sidecars to the
// output directory and records their metadata.
type Persister struct {
	outputDir string
	store     storage.ArtifactStore
	logger    *slog.Logger
}

// Option configures a Persister.
type Option func(*Persister) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Persister) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPersister creates a persister writing into outputDir, creating the
// directory if needed.
func NewPersister(outputDir string, store storage.ArtifactStore, opts ...Option) (*Persister, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	p := &Persister{
		outputDir: outputDir,
		store:     store,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// usageStats is the JSON layout of the usage sidecar.
type usageStats struct {
	TokenUsage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"token_usage"`
	DurationSeconds float64 `json:"duration_seconds"`
	Costs           struct {
		PromptCost     float64 `json:"prompt_cost"`
		CompletionCost float64 `json:"completion_cost"`
		TotalCost      float64 `json:"total_cost"`
	} `json:"costs"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Persist writes the document text and its usage statistics sidecar under
// a timestamp-derived identifier and records the artifact metadata. The
// caller keeps the in-memory document whether or not persistence
// succeeds.
func (p *Persister) Persist(ctx context.Context, doc *core.GeneratedDocument, runID string) (*core.ArtifactRecord, error) {
	now := time.Now().UTC()
	id := fmt.Sprintf("%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])

	docPath := filepath.Join(p.outputDir, fmt.Sprintf("training_doc_%s.md", id))
	usagePath := filepath.Join(p.outputDir, fmt.Sprintf("usage_stats_%s.json", id))

	if err := os.WriteFile(docPath, []byte(doc.Markdown), 0o644); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}

	stats := usageStats{
		DurationSeconds: doc.Usage.DurationSeconds,
		StartTime:       doc.Usage.StartTime,
		EndTime:         doc.Usage.EndTime,
	}
	stats.TokenUsage.PromptTokens = doc.Usage.PromptTokens
	stats.TokenUsage.CompletionTokens = doc.Usage.CompletionTokens
	stats.TokenUsage.TotalTokens = doc.Usage.TotalTokens
	stats.Costs.PromptCost = doc.Usage.PromptCost
	stats.Costs.CompletionCost = doc.Usage.CompletionCost
	stats.Costs.TotalCost = doc.Usage.TotalCost

	statsBytes, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding usage stats: %w", err)
	}
	if err := os.WriteFile(usagePath, statsBytes, 0o644); err != nil {
		return nil, fmt.Errorf("writing usage stats: %w", err)
	}

	record := &core.ArtifactRecord{
		ID:           id,
		RunID:        runID,
		Author:       doc.Author,
		DocumentPath: docPath,
		UsagePath:    usagePath,
		Usage:        doc.Usage,
		CreatedAt:    now,
	}

	if err := p.store.RecordArtifact(ctx, record); err != nil {
		// Files are on disk; a metadata failure should not look like a
		// lost document.
		p.logger.Warn("failed to record artifact metadata", "artifactId", id, "err", err)
	}

	p.logger.Info("document persisted", "artifactId", id, "documentPath", docPath)
	return record, nil
}

package pipeline

import (
	"fmt"
	"time"

	"github.com/poiesic/scrivener/usage"
)

// Config holds the per-run tuning knobs of the pipeline.
type Config struct {
	// ChunkSize and ChunkOverlap control ingestion chunk geometry,
	// in characters.
	ChunkSize    int
	ChunkOverlap int

	// EmbedBatchSize is the number of chunks embedded per service call
	// during index builds.
	EmbedBatchSize int

	// Workers bounds the number of concurrent section tasks, and with
	// them the in-flight model calls.
	Workers int

	// RetrievalK is how many chunks each search query contributes to a
	// section's local context.
	RetrievalK int

	// CallTimeout bounds each individual model call attempt.
	CallTimeout time.Duration

	// RunTimeout is the overall deadline for a full run. Zero disables
	// it. When the deadline passes, tasks not yet started are marked
	// degraded and the document is assembled from what completed.
	RunTimeout time.Duration

	// Temperature is the sampling temperature for generation calls.
	Temperature float64

	// Rates are the per-thousand-token prices used for cost accounting.
	Rates usage.Rates

	// OutputDir is where generated documents and usage sidecars land.
	OutputDir string

	// Author is the email tag attached to persisted artifacts. May be
	// empty.
	Author string
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:      1000,
		ChunkOverlap:   150,
		EmbedBatchSize: 64,
		Workers:        8,
		RetrievalK:     6,
		CallTimeout:    2 * time.Minute,
		RunTimeout:     0,
		Temperature:    0.7,
		Rates:          usage.DefaultRates(),
		OutputDir:      "out",
	}
}

// Validate checks the config for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.EmbedBatchSize < 1 {
		return fmt.Errorf("embed batch size must be positive, got %d", c.EmbedBatchSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.RetrievalK < 1 {
		return fmt.Errorf("retrieval k must be positive, got %d", c.RetrievalK)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %s", c.CallTimeout)
	}
	return nil
}

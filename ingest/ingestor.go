package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/scrivener/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 150
)

// supportedExtensions maps the plain-text formats ingestion accepts.
// Binary formats (PDF, DOCX, ...) are converted by an upstream service and
// arrive here already as text files.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

// SkippedFile records one input that was left out of the corpus and why.
type SkippedFile struct {
	Path   string
	Reason string
}

// Report is the outcome of ingesting a set of paths: the chunks produced,
// the files skipped, and the content hash of the bytes that were used.
type Report struct {
	Chunks      []core.Chunk
	Skipped     []SkippedFile
	ContentHash core.ContentHash
}

// Ingestor loads documents and splits them into overlapping chunks.
type Ingestor struct {
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor) error

// WithChunkSize sets the maximum chunk size in characters.
// Default is 1000.
func WithChunkSize(size int) Option {
	return func(ing *Ingestor) error {
		if size < 1 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		ing.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in characters.
// Default is 150.
func WithChunkOverlap(overlap int) Option {
	return func(ing *Ingestor) error {
		if overlap < 0 {
			return fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
		}
		ing.chunkOverlap = overlap
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ing *Ingestor) error {
		if logger == nil {
			logger = slog.Default()
		}
		ing.logger = logger
		return nil
	}
}

// NewIngestor creates a new ingestor.
func NewIngestor(opts ...Option) (*Ingestor, error) {
	ing := &Ingestor{
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(ing); err != nil {
			return nil, err
		}
	}

	if ing.chunkOverlap >= ing.chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d",
			ing.chunkOverlap, ing.chunkSize)
	}

	return ing, nil
}

// Ingest loads every path, splits the readable ones into chunks and
// accumulates skip reasons for the rest. Chunk order within a document
// follows document order; document order follows the input path order.
// Returns core.ErrEmptyCorpus only when zero chunks were produced overall.
func (ing *Ingestor) Ingest(paths []string) (*Report, error) {
	report := &Report{}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(ing.chunkSize),
		textsplitter.WithChunkOverlap(ing.chunkOverlap),
	)

	var hashParts [][]byte
	for _, path := range paths {
		data, reason := ing.load(path)
		if reason != "" {
			ing.logger.Warn("skipping input file", "path", path, "reason", reason)
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: reason})
			continue
		}

		pieces, err := splitter.SplitText(string(data))
		if err != nil {
			ing.logger.Warn("skipping input file", "path", path, "reason", "split failed", "err", err)
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: "split failed: " + err.Error()})
			continue
		}

		seq := 0
		for _, piece := range pieces {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			report.Chunks = append(report.Chunks, core.Chunk{
				Text:          piece,
				SourcePath:    path,
				SequenceIndex: seq,
			})
			seq++
		}

		if seq == 0 {
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: "no text content"})
			continue
		}
		hashParts = append(hashParts, data)
	}

	if len(report.Chunks) == 0 {
		return report, fmt.Errorf("%w: %d files skipped", core.ErrEmptyCorpus, len(report.Skipped))
	}

	report.ContentHash = core.HashContent(hashParts...)
	ing.logger.Info("ingestion complete",
		"chunks", len(report.Chunks),
		"skipped", len(report.Skipped),
		"contentHash", string(report.ContentHash))
	return report, nil
}

// load reads one input file and classifies failures into a skip reason.
// An empty reason means data is usable.
func (ing *Ingestor) load(path string) (data []byte, reason string) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, fmt.Sprintf("unsupported file type %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "file not found"
		}
		return nil, "unreadable: " + err.Error()
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, "file is empty"
	}

	return data, ""
}

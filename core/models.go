package core

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentHash identifies a source corpus by its raw byte content.
// It is the cache key for semantic indices: byte-identical corpora always
// produce the same ContentHash.
type ContentHash string

// HashContent computes the ContentHash over the concatenated raw bytes of a
// corpus, in corpus order.
func HashContent(parts ...[]byte) ContentHash {
	h, _ := blake2b.New(16, nil)
	for _, part := range parts {
		h.Write(part)
	}
	return ContentHash(hex.EncodeToString(h.Sum(nil)))
}

// Chunk is a bounded, overlapping slice of a source document's text.
// Chunks are created once during ingestion and never mutated afterwards.
type Chunk struct {
	Text          string
	SourcePath    string
	SequenceIndex int // position of the chunk within its source document
}

// Section is one entry of an Outline.
type Section struct {
	Title string
	Level int // 1 = top-level heading, 2 = subsection
}

// Outline is the ordered list of sections the generated document will have.
// Order is significant and is preserved through the rest of the pipeline
// regardless of the completion order of concurrent section tasks.
type Outline struct {
	Sections []Section
}

// Titles returns the section titles in outline order.
func (o Outline) Titles() []string {
	titles := make([]string, len(o.Sections))
	for i, s := range o.Sections {
		titles[i] = s.Title
	}
	return titles
}

// IsEmpty reports whether the outline has no sections.
func (o Outline) IsEmpty() bool {
	return len(o.Sections) == 0
}

// ArtifactType identifies the kind of content generated for a section.
type ArtifactType int

const (
	// ArtifactMain is the primary theory content of a section.
	ArtifactMain ArtifactType = iota + 1
	// ArtifactPractice is a set of practical exercises.
	ArtifactPractice
	// ArtifactCaseStudy is a worked real-world scenario.
	ArtifactCaseStudy
	// ArtifactQuiz is a short knowledge check.
	ArtifactQuiz
	// ArtifactClosingMemo is a closing note, generated only for the
	// designated terminal section of the outline.
	ArtifactClosingMemo
)

// ArtifactOrder is the fixed ordering of artifacts within a section record.
var ArtifactOrder = []ArtifactType{
	ArtifactMain,
	ArtifactPractice,
	ArtifactCaseStudy,
	ArtifactQuiz,
	ArtifactClosingMemo,
}

// String returns the canonical lowercase name of the artifact type.
func (t ArtifactType) String() string {
	switch t {
	case ArtifactMain:
		return "main"
	case ArtifactPractice:
		return "practice"
	case ArtifactCaseStudy:
		return "case_study"
	case ArtifactQuiz:
		return "quiz"
	case ArtifactClosingMemo:
		return "closing_memo"
	default:
		return "unknown"
	}
}

// Label returns the human-readable heading used when the artifact is
// rendered into the final document.
func (t ArtifactType) Label() string {
	switch t {
	case ArtifactMain:
		return "Overview"
	case ArtifactPractice:
		return "Practice"
	case ArtifactCaseStudy:
		return "Case Study"
	case ArtifactQuiz:
		return "Quiz"
	case ArtifactClosingMemo:
		return "Closing Memo"
	default:
		return "Unknown"
	}
}

// TaskState is the lifecycle state of a section task.
type TaskState int

const (
	// TaskPending means the task is queued and has not started.
	TaskPending TaskState = iota + 1
	// TaskRetrieving means the task is gathering local context from the index.
	TaskRetrieving
	// TaskGenerating means the task is waiting on the language model.
	TaskGenerating
	// TaskReviewing means the task is running the quality-check pass.
	TaskReviewing
	// TaskDone means the task produced a final artifact.
	TaskDone
	// TaskDegraded means the task exhausted its retries and produced a
	// placeholder instead of real content.
	TaskDegraded
)

// String returns the lowercase name of the task state.
func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRetrieving:
		return "retrieving"
	case TaskGenerating:
		return "generating"
	case TaskReviewing:
		return "reviewing"
	case TaskDone:
		return "done"
	case TaskDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Background is the structured description of the document to generate.
// It is supplied by the caller and read-only for the life of the run.
type Background struct {
	Title             string
	Audience          string
	Company           string
	Goals             []string
	ContentNeeds      []string
	FormatPreferences string
}

// Summary renders the background as prompt-ready text, omitting empty fields.
func (b Background) Summary() string {
	var sb strings.Builder
	writeField := func(label, value string) {
		if value != "" {
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteString("\n")
		}
	}
	writeField("Title", b.Title)
	writeField("Audience", b.Audience)
	writeField("Company", b.Company)
	writeField("Goals", strings.Join(b.Goals, "; "))
	writeField("Content needs", strings.Join(b.ContentNeeds, "; "))
	writeField("Format preferences", b.FormatPreferences)
	return sb.String()
}

// SectionRecord is the fan-in result for one outline section: every typed
// artifact generated for it, keyed by artifact type. A record is assembled
// only once all tasks belonging to the section have completed, successfully
// or in degraded form.
type SectionRecord struct {
	Title     string
	Artifacts map[ArtifactType]string
}

// ScoredChunk is a chunk returned from similarity search together with its
// cosine similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// IndexEntry is one embedded chunk inside a persisted index snapshot.
type IndexEntry struct {
	Vector []float32
	Chunk  Chunk
}

// IndexSnapshot is the persisted form of a semantic index, keyed by the
// ContentHash of the corpus it was built from.
type IndexSnapshot struct {
	ContentHash ContentHash
	Entries     []IndexEntry
	CreatedAt   time.Time
}

// QuerySet is a cached set of search queries derived for a section title.
// Repeated runs over the same title reuse the cached queries instead of
// calling the language model again.
type QuerySet struct {
	Title     string
	Queries   []string
	Timestamp time.Time
}

// UsageSnapshot is a point-in-time view of the tokens and cost consumed by
// a run, as reported by the usage ledger.
type UsageSnapshot struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	PromptCost       float64
	CompletionCost   float64
	TotalCost        float64
	StartTime        time.Time
	EndTime          time.Time
	DurationSeconds  float64
}

// ArtifactRecord is the persisted metadata of one generated document:
// where it was written, who asked for it, and what the run cost.
type ArtifactRecord struct {
	ID           string // timestamp-derived identifier of the artifact
	RunID        string // unique identifier of the pipeline run
	Author       string // email tag of the requesting user, may be empty
	DocumentPath string
	UsagePath    string
	Usage        UsageSnapshot
	CreatedAt    time.Time
}

// GeneratedDocument is the final output of a full generation run.
type GeneratedDocument struct {
	Outline  Outline
	Sections []SectionRecord // ordered by Outline
	Markdown string          // rendered document text
	Usage    UsageSnapshot
	Author   string // email tag of the requesting user, may be empty
}

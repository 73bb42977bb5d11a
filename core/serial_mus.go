package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the types that get persisted in the
// cache stores. Timestamps are stored as UnixMicro. Vector elements use the
// raw (fixed 4-byte) float encoding since embedding components rarely
// benefit from varint compression.

// ChunkMUS serializes Chunk values.
var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(c.Text, bs)
	n += ord.String.Marshal(c.SourcePath, bs[n:])
	n += varint.Int.Marshal(c.SequenceIndex, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	c.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	c.SourcePath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.SequenceIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkMUS) Size(c Chunk) (size int) {
	size = ord.String.Size(c.Text)
	size += ord.String.Size(c.SourcePath)
	size += varint.Int.Size(c.SequenceIndex)
	return size
}

// IndexEntryMUS serializes IndexEntry values.
var IndexEntryMUS = indexEntryMUS{}

type indexEntryMUS struct{}

func (indexEntryMUS) Marshal(e IndexEntry, bs []byte) (n int) {
	n = varint.Int.Marshal(len(e.Vector), bs)
	for _, v := range e.Vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	n += ChunkMUS.Marshal(e.Chunk, bs[n:])
	return n
}

func (indexEntryMUS) Unmarshal(bs []byte) (e IndexEntry, n int, err error) {
	var n1 int
	var length int
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	e.Vector = make([]float32, length)
	for i := 0; i < length; i++ {
		e.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	e.Chunk, n1, err = ChunkMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (indexEntryMUS) Size(e IndexEntry) (size int) {
	size = varint.Int.Size(len(e.Vector))
	for _, v := range e.Vector {
		size += raw.Float32.Size(v)
	}
	size += ChunkMUS.Size(e.Chunk)
	return size
}

// IndexSnapshotMUS serializes IndexSnapshot values.
var IndexSnapshotMUS = indexSnapshotMUS{}

type indexSnapshotMUS struct{}

func (indexSnapshotMUS) Marshal(s IndexSnapshot, bs []byte) (n int) {
	n = ord.String.Marshal(string(s.ContentHash), bs)
	n += varint.Int.Marshal(len(s.Entries), bs[n:])
	for _, e := range s.Entries {
		n += IndexEntryMUS.Marshal(e, bs[n:])
	}
	n += varint.Int64.Marshal(s.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (indexSnapshotMUS) Unmarshal(bs []byte) (s IndexSnapshot, n int, err error) {
	var n1 int
	var hash string
	hash, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	s.ContentHash = ContentHash(hash)
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	s.Entries = make([]IndexEntry, length)
	for i := 0; i < length; i++ {
		s.Entries[i], n1, err = IndexEntryMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.CreatedAt = time.UnixMicro(micros).UTC()
	return
}

func (indexSnapshotMUS) Size(s IndexSnapshot) (size int) {
	size = ord.String.Size(string(s.ContentHash))
	size += varint.Int.Size(len(s.Entries))
	for _, e := range s.Entries {
		size += IndexEntryMUS.Size(e)
	}
	size += varint.Int64.Size(s.CreatedAt.UnixMicro())
	return size
}

// UsageSnapshotMUS serializes UsageSnapshot values.
var UsageSnapshotMUS = usageSnapshotMUS{}

type usageSnapshotMUS struct{}

func (usageSnapshotMUS) Marshal(u UsageSnapshot, bs []byte) (n int) {
	n = varint.Int64.Marshal(u.PromptTokens, bs)
	n += varint.Int64.Marshal(u.CompletionTokens, bs[n:])
	n += varint.Int64.Marshal(u.TotalTokens, bs[n:])
	n += raw.Float64.Marshal(u.PromptCost, bs[n:])
	n += raw.Float64.Marshal(u.CompletionCost, bs[n:])
	n += raw.Float64.Marshal(u.TotalCost, bs[n:])
	n += varint.Int64.Marshal(u.StartTime.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(u.EndTime.UnixMicro(), bs[n:])
	n += raw.Float64.Marshal(u.DurationSeconds, bs[n:])
	return n
}

func (usageSnapshotMUS) Unmarshal(bs []byte) (u UsageSnapshot, n int, err error) {
	var n1 int
	u.PromptTokens, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	u.CompletionTokens, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.TotalTokens, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.PromptCost, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.CompletionCost, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.TotalCost, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.StartTime = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.EndTime = time.UnixMicro(micros).UTC()
	u.DurationSeconds, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (usageSnapshotMUS) Size(u UsageSnapshot) (size int) {
	size = varint.Int64.Size(u.PromptTokens)
	size += varint.Int64.Size(u.CompletionTokens)
	size += varint.Int64.Size(u.TotalTokens)
	size += raw.Float64.Size(u.PromptCost)
	size += raw.Float64.Size(u.CompletionCost)
	size += raw.Float64.Size(u.TotalCost)
	size += varint.Int64.Size(u.StartTime.UnixMicro())
	size += varint.Int64.Size(u.EndTime.UnixMicro())
	size += raw.Float64.Size(u.DurationSeconds)
	return size
}

// ArtifactRecordMUS serializes ArtifactRecord values.
var ArtifactRecordMUS = artifactRecordMUS{}

type artifactRecordMUS struct{}

func (artifactRecordMUS) Marshal(r ArtifactRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += ord.String.Marshal(r.RunID, bs[n:])
	n += ord.String.Marshal(r.Author, bs[n:])
	n += ord.String.Marshal(r.DocumentPath, bs[n:])
	n += ord.String.Marshal(r.UsagePath, bs[n:])
	n += UsageSnapshotMUS.Marshal(r.Usage, bs[n:])
	n += varint.Int64.Marshal(r.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (artifactRecordMUS) Unmarshal(bs []byte) (r ArtifactRecord, n int, err error) {
	var n1 int
	r.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.RunID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Author, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.DocumentPath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.UsagePath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Usage, n1, err = UsageSnapshotMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.CreatedAt = time.UnixMicro(micros).UTC()
	return
}

func (artifactRecordMUS) Size(r ArtifactRecord) (size int) {
	size = ord.String.Size(r.ID)
	size += ord.String.Size(r.RunID)
	size += ord.String.Size(r.Author)
	size += ord.String.Size(r.DocumentPath)
	size += ord.String.Size(r.UsagePath)
	size += UsageSnapshotMUS.Size(r.Usage)
	size += varint.Int64.Size(r.CreatedAt.UnixMicro())
	return size
}

// QuerySetMUS serializes QuerySet values.
var QuerySetMUS = querySetMUS{}

type querySetMUS struct{}

func (querySetMUS) Marshal(q QuerySet, bs []byte) (n int) {
	n = ord.String.Marshal(q.Title, bs)
	n += varint.Int.Marshal(len(q.Queries), bs[n:])
	for _, query := range q.Queries {
		n += ord.String.Marshal(query, bs[n:])
	}
	n += varint.Int64.Marshal(q.Timestamp.UnixMicro(), bs[n:])
	return n
}

func (querySetMUS) Unmarshal(bs []byte) (q QuerySet, n int, err error) {
	var n1 int
	q.Title, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	q.Queries = make([]string, length)
	for i := 0; i < length; i++ {
		q.Queries[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	q.Timestamp = time.UnixMicro(micros).UTC()
	return
}

func (querySetMUS) Size(q QuerySet) (size int) {
	size = ord.String.Size(q.Title)
	size += varint.Int.Size(len(q.Queries))
	for _, query := range q.Queries {
		size += ord.String.Size(query)
	}
	size += varint.Int64.Size(q.Timestamp.UnixMicro())
	return size
}

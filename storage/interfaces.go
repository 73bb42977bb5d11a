package storage

import (
	"context"

	"github.com/poiesic/scrivener/core"
)

// IndexCache persists semantic index snapshots keyed by corpus content hash.
// Implementations must be thread-safe and support concurrent access.
type IndexCache interface {
	// LoadSnapshot returns the snapshot cached under the given content hash.
	// Returns ErrNotFound on a cache miss.
	LoadSnapshot(ctx context.Context, hash core.ContentHash) (*core.IndexSnapshot, error)

	// SaveSnapshot stores the snapshot under its content hash, replacing any
	// previous snapshot for the same hash.
	SaveSnapshot(ctx context.Context, snapshot *core.IndexSnapshot) error

	// Close closes the cache and releases resources.
	Close() error
}

// QueryCache persists derived section query sets keyed by section title.
// Implementations must be thread-safe and support concurrent access.
type QueryCache interface {
	// LoadQuerySet returns the query set cached for the given title.
	// Returns ErrNotFound on a cache miss.
	LoadQuerySet(ctx context.Context, title string) (*core.QuerySet, error)

	// SaveQuerySet stores the query set under its title.
	SaveQuerySet(ctx context.Context, qs *core.QuerySet) error

	// Close closes the cache and releases resources.
	Close() error
}

// ArtifactStore records metadata about persisted generated documents.
// Implementations must be thread-safe and support concurrent access.
type ArtifactStore interface {
	// RecordArtifact stores the metadata of one generated document.
	RecordArtifact(ctx context.Context, record *core.ArtifactRecord) error

	// GetArtifact returns the record with the given artifact ID.
	// Returns ErrNotFound if no such record exists.
	GetArtifact(ctx context.Context, id string) (*core.ArtifactRecord, error)

	// ListArtifacts returns all recorded artifacts, most recent first.
	ListArtifacts(ctx context.Context) ([]*core.ArtifactRecord, error)

	// Close closes the store and releases resources.
	Close() error
}

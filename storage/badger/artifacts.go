package badger

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/storage"
)

// ArtifactStore implements storage.ArtifactStore for BadgerDB.
type ArtifactStore struct {
	backend *Backend
}

var _ storage.ArtifactStore = (*ArtifactStore)(nil)

// NewArtifactStore creates a new ArtifactStore on the given backend.
func NewArtifactStore(backend *Backend) *ArtifactStore {
	return &ArtifactStore{backend: backend}
}

// RecordArtifact stores the metadata of one generated document.
func (r *ArtifactStore) RecordArtifact(ctx context.Context, record *core.ArtifactRecord) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}
		value := storage.MarshalArtifactRecord(record)
		if err := tx.Set(makeArtifactRecordKey(record.ID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetArtifact returns the record with the given artifact ID.
func (r *ArtifactStore) GetArtifact(ctx context.Context, id string) (*core.ArtifactRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *core.ArtifactRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArtifactRecordKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalArtifactRecord(val)
			return unmarshalErr
		})
	}, false)

	return record, err
}

// ListArtifacts returns all recorded artifacts, most recent first.
func (r *ArtifactStore) ListArtifacts(ctx context.Context) ([]*core.ArtifactRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var records []*core.ArtifactRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(artifactRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, unmarshalErr := storage.UnmarshalArtifactRecord(val)
				if unmarshalErr != nil {
					return unmarshalErr
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Close is a no-op; the shared backend owns the database lifecycle.
func (r *ArtifactStore) Close() error {
	return nil
}

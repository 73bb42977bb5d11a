package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/storage"
)

// QueryCache implements storage.QueryCache for BadgerDB.
type QueryCache struct {
	backend *Backend
}

var _ storage.QueryCache = (*QueryCache)(nil)

// NewQueryCache creates a new QueryCache on the given backend.
func NewQueryCache(backend *Backend) *QueryCache {
	return &QueryCache{backend: backend}
}

// LoadQuerySet returns the query set cached for the given title.
// Returns storage.ErrNotFound on a cache miss.
func (r *QueryCache) LoadQuerySet(ctx context.Context, title string) (*core.QuerySet, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var qs *core.QuerySet
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeQuerySetKey(title))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			qs, unmarshalErr = storage.UnmarshalQuerySet(val)
			return unmarshalErr
		})
	}, false)

	return qs, err
}

// SaveQuerySet stores the query set under its title.
func (r *QueryCache) SaveQuerySet(ctx context.Context, qs *core.QuerySet) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if qs.Timestamp.IsZero() {
			qs.Timestamp = time.Now().UTC()
		}
		value := storage.MarshalQuerySet(qs)
		if err := tx.Set(makeQuerySetKey(qs.Title), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the shared backend owns the database lifecycle.
func (r *QueryCache) Close() error {
	return nil
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/storage"
)

// IndexCache implements storage.IndexCache for BadgerDB.
type IndexCache struct {
	backend *Backend
}

var _ storage.IndexCache = (*IndexCache)(nil)

// NewIndexCache creates a new IndexCache on the given backend.
func NewIndexCache(backend *Backend) *IndexCache {
	return &IndexCache{backend: backend}
}

// LoadSnapshot returns the snapshot cached under the given content hash.
// Returns storage.ErrNotFound on a cache miss.
func (r *IndexCache) LoadSnapshot(ctx context.Context, hash core.ContentHash) (*core.IndexSnapshot, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var snapshot *core.IndexSnapshot
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIndexSnapshotKey(hash))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			snapshot, unmarshalErr = storage.UnmarshalIndexSnapshot(val)
			return unmarshalErr
		})
	}, false)

	return snapshot, err
}

// SaveSnapshot stores the snapshot under its content hash.
func (r *IndexCache) SaveSnapshot(ctx context.Context, snapshot *core.IndexSnapshot) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if snapshot.CreatedAt.IsZero() {
			snapshot.CreatedAt = time.Now().UTC()
		}
		value := storage.MarshalIndexSnapshot(snapshot)
		if err := tx.Set(makeIndexSnapshotKey(snapshot.ContentHash), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the shared backend owns the database lifecycle.
func (r *IndexCache) Close() error {
	return nil
}

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


package storage

import (
	"fmt"

	"github.com/poiesic/scrivener/core"
)

// MarshalIndexSnapshot serializes an IndexSnapshot to bytes.
func MarshalIndexSnapshot(snapshot *core.IndexSnapshot) []byte {
	buf := make([]byte, core.IndexSnapshotMUS.Size(*snapshot))
	core.IndexSnapshotMUS.Marshal(*snapshot, buf)
	return buf
}

// UnmarshalIndexSnapshot deserializes an IndexSnapshot from bytes.
func UnmarshalIndexSnapshot(data []byte) (*core.IndexSnapshot, error) {
	snapshot, _, err := core.IndexSnapshotMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &snapshot, nil
}

// MarshalQuerySet serializes a QuerySet to bytes.
func MarshalQuerySet(qs *core.QuerySet) []byte {
	buf := make([]byte, core.QuerySetMUS.Size(*qs))
	core.QuerySetMUS.Marshal(*qs, buf)
	return buf
}

// UnmarshalQuerySet deserializes a QuerySet from bytes.
func UnmarshalQuerySet(data []byte) (*core.QuerySet, error) {
	qs, _, err := core.QuerySetMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &qs, nil
}

// MarshalArtifactRecord serializes an ArtifactRecord to bytes.
func MarshalArtifactRecord(record *core.ArtifactRecord) []byte {
	buf := make([]byte, core.ArtifactRecordMUS.Size(*record))
	core.ArtifactRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalArtifactRecord deserializes an ArtifactRecord from bytes.
func UnmarshalArtifactRecord(data []byte) (*core.ArtifactRecord, error) {
	record, _, err := core.ArtifactRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

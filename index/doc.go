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


// Package index builds and queries the semantic index over ingested chunks.
//
// An Index is immutable once constructed and may be shared by any number of
// concurrent readers without synchronization. The Builder is cache-first:
// byte-identical corpora hit the persisted snapshot (keyed by ContentHash)
// and perform zero embedding calls. On a miss, chunks are embedded in
// bounded concurrent batches under the run's retry policy, merged in chunk
// order, normalized, and the snapshot is persisted before the index is
// returned.
//
// Vectors are unit-normalized at build time, so similarity reduces to a
// dot product at query time.
package index

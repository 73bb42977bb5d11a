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


// Package storage defines the persistence abstractions for the pipeline's
// caches and artifact metadata.
//
// Three repositories are defined:
//
//   - IndexCache: persisted semantic index snapshots, keyed by the
//     ContentHash of the corpus they were built from
//   - QueryCache: section query sets, keyed by the section title
//   - ArtifactStore: metadata of generated documents
//
// Implementations must be thread-safe. The badger sub-package provides the
// production implementation on BadgerDB; records are serialized with the
// hand-written MUS serializers in core.
package storage

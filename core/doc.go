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


// Package core defines the domain model for Scrivener.
//
// The types here describe the full lifecycle of a generation run: source
// documents are split into Chunks, Chunks are embedded into an index whose
// persisted form is an IndexSnapshot, the language model produces an Outline,
// every Section of the Outline yields one SectionRecord of typed artifacts,
// and the run ends in a GeneratedDocument together with a UsageSnapshot of
// the tokens and cost it consumed.
//
// All types are plain data. Identity is content-derived: corpora are keyed
// by a ContentHash of their raw bytes, section query sets by an ID of the
// section title. Identical input always maps to the identical key, which is
// what makes the index and query caches idempotent.
//
// The package has no dependencies on other scrivener packages; everything
// else depends on it.
package core

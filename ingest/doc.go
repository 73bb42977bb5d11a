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


// Package ingest loads source documents and splits them into overlapping
// chunks for indexing.
//
// Ingestion fails soft per file: a missing, unreadable, empty or
// unsupported file is skipped and recorded in the Report with its reason
// rather than aborting the run. Only a corpus that yields zero chunks
// across all inputs is fatal (core.ErrEmptyCorpus). The Report also carries
// the ContentHash of the raw bytes that made it in, which downstream uses
// as the semantic index cache key.
package ingest

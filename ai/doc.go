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


// Package ai provides abstractions for the external AI services used by
// Scrivener.
//
// Two capabilities are defined: Embedder turns text into vectors for
// similarity search, and Completer produces text from prompts and reports
// the token usage of each call. AIProvider aggregates both for convenient
// initialization. The pipeline depends only on these interfaces; concrete
// clients live in sub-packages:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: test doubles with injectable behavior and call counting
//
// # Error classification
//
// External services fail in two ways: transiently (timeouts, overload) and
// permanently (bad request, misconfiguration). Callers retry transient
// failures; permanent ones are surfaced immediately. Implementations mark
// non-retryable failures with Permanent, and the retry layer consults
// IsPermanent before scheduling another attempt. Anything not explicitly
// permanent is assumed transient, since that is the common failure mode of
// the services involved.
//
// # Thread safety
//
// All implementations must be safe for concurrent use; the section fan-out
// scheduler calls them from many goroutines at once.
package ai

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


// Package pipeline orchestrates full generation runs.
//
// A Pipeline owns the long-lived collaborators (AI provider, caches,
// artifact store, retry policy) and exposes the two run-scoped
// operations: GenerateOutline and GenerateFullDocument. Each run gets
// its own usage ledger, run ID and, when configured, an overall
// deadline; per-run state never leaks between runs.
package pipeline

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


// Package assemble renders section records into the final markdown
// document and persists it.
//
// Assembly walks the outline in order and concatenates, per section, a
// heading line, the main artifact, and labeled practice/case study/quiz
// blocks, with the closing memo only where one was generated. Persistence
// writes the document and a JSON usage sidecar under a timestamp-derived
// identifier; a persistence failure is reported to the caller but never
// discards the in-memory document.
package assemble

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


// Package generate fans the outline out into concurrent section tasks and
// fans the results back in.
//
// Every outline section produces one task per artifact type (main content,
// practice, case study, quiz, plus a closing memo for the designated
// terminal section). All tasks across all sections are dispatched to a
// bounded worker pool together; a task retrieves local context from the
// semantic index, generates its artifact, runs a review pass, and
// normalizes citations. A task that exhausts its retries yields a marked
// placeholder instead of aborting siblings, and the assembled section
// order always equals the outline order no matter which tasks finish
// first.
package generate

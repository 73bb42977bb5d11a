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


// Package mock provides test doubles for the ai interfaces.
//
// The mocks default to deterministic behavior (hash-derived embedding
// vectors, echo-style completions) so tests are reproducible without an
// external service. Behavior can be overridden per test through the
// exported function fields, and every mock counts its calls with atomic
// counters so concurrent pipelines can be asserted on safely.
//
// MockCompleter additionally supports scripted failure runs (FailTimes)
// and artificial latency (Delay), which the scheduler tests use to verify
// retry semantics and completion-order independence.
package mock

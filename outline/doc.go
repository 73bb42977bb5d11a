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


// Package outline plans the section structure of a generated document.
//
// The Generator retrieves supporting context for the requested background,
// asks the language model for a section plan, and parses the response into
// an ordered Outline. Parsing is forgiving: a response the parser cannot
// use, or one implausibly short to be a real plan, is replaced by a fixed
// default outline rather than failing the run. Only exhausting retries on
// the model call itself is fatal, since without any outline nothing
// downstream can proceed.
package outline

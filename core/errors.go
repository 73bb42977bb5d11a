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


package core

import "errors"

// Domain errors shared across the pipeline.
var (
	// ErrEmptyCorpus indicates that ingestion produced zero usable chunks
	// across all inputs. Fatal: nothing downstream can proceed.
	ErrEmptyCorpus = errors.New("corpus produced no usable chunks")

	// ErrEmptyOutline indicates an outline with no sections reached a
	// component that requires at least one.
	ErrEmptyOutline = errors.New("outline has no sections")

	// ErrInvalidBackground indicates a Background failed validation.
	ErrInvalidBackground = errors.New("invalid background")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidSection indicates a Section failed validation.
	ErrInvalidSection = errors.New("invalid section")

	// ErrInvalidArtifactType indicates an ArtifactType outside the known set.
	ErrInvalidArtifactType = errors.New("invalid artifact type")

	// ErrNegativeLength indicates corrupt serialized data with a negative
	// collection length.
	ErrNegativeLength = errors.New("negative length in serialized data")
)

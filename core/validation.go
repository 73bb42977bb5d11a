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

import (
	"fmt"
	"strings"
)

// ValidateBackground validates a Background according to domain rules.
//
// Validation rules:
//   - At least one of Title, Audience, Goals or ContentNeeds must be set,
//     otherwise there is nothing to plan the document around.
func ValidateBackground(b Background) error {
	if strings.TrimSpace(b.Title) == "" &&
		strings.TrimSpace(b.Audience) == "" &&
		len(b.Goals) == 0 &&
		len(b.ContentNeeds) == 0 {
		return fmt.Errorf("%w: background is empty", ErrInvalidBackground)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - SourcePath must not be empty
//   - SequenceIndex must not be negative
func ValidateChunk(c Chunk) error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: text is empty", ErrInvalidChunk)
	}
	if c.SourcePath == "" {
		return fmt.Errorf("%w: source path is empty", ErrInvalidChunk)
	}
	if c.SequenceIndex < 0 {
		return fmt.Errorf("%w: negative sequence index %d", ErrInvalidChunk, c.SequenceIndex)
	}
	return nil
}

// ValidateSection validates a Section according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Level must be 1 or 2
func ValidateSection(s Section) error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidSection)
	}
	if s.Level < 1 || s.Level > 2 {
		return fmt.Errorf("%w: level %d out of range", ErrInvalidSection, s.Level)
	}
	return nil
}

// ValidateArtifactType validates that an ArtifactType has a known value.
func ValidateArtifactType(t ArtifactType) error {
	switch t {
	case ArtifactMain, ArtifactPractice, ArtifactCaseStudy, ArtifactQuiz, ArtifactClosingMemo:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidArtifactType, int(t))
	}
}

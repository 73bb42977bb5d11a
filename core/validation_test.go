package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBackground(t *testing.T) {
	tests := []struct {
		name    string
		bg      Background
		wantErr bool
	}{
		{"title only", Background{Title: "Orientation"}, false},
		{"audience only", Background{Audience: "engineers"}, false},
		{"goals only", Background{Goals: []string{"safety"}}, false},
		{"completely empty", Background{}, true},
		{"whitespace title", Background{Title: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBackground(tt.bg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBackground)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   Chunk
		wantErr bool
	}{
		{"valid", Chunk{Text: "some text", SourcePath: "a.txt", SequenceIndex: 0}, false},
		{"empty text", Chunk{Text: "", SourcePath: "a.txt"}, true},
		{"whitespace text", Chunk{Text: " \n\t", SourcePath: "a.txt"}, true},
		{"missing source", Chunk{Text: "some text"}, true},
		{"negative index", Chunk{Text: "some text", SourcePath: "a.txt", SequenceIndex: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidChunk)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSection(t *testing.T) {
	assert.NoError(t, ValidateSection(Section{Title: "Procedures", Level: 1}))
	assert.NoError(t, ValidateSection(Section{Title: "Details", Level: 2}))
	assert.ErrorIs(t, ValidateSection(Section{Title: "", Level: 1}), ErrInvalidSection)
	assert.ErrorIs(t, ValidateSection(Section{Title: "Procedures", Level: 0}), ErrInvalidSection)
	assert.ErrorIs(t, ValidateSection(Section{Title: "Procedures", Level: 3}), ErrInvalidSection)
}

func TestValidateArtifactType(t *testing.T) {
	for _, at := range ArtifactOrder {
		assert.NoError(t, ValidateArtifactType(at))
	}
	assert.ErrorIs(t, ValidateArtifactType(ArtifactType(0)), ErrInvalidArtifactType)
	assert.ErrorIs(t, ValidateArtifactType(ArtifactType(42)), ErrInvalidArtifactType)
}

package openai

import (
	"errors"
	"testing"

	"github.com/poiesic/scrivener/ai"
	"github.com/stretchr/testify/assert"
)

func TestClassifyServiceError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"unauthorized", errors.New("API returned unexpected status code: 401 Unauthorized"), true},
		{"forbidden", errors.New("API returned unexpected status code: 403 Forbidden"), true},
		{"unknown model", errors.New(`API returned unexpected status code: 404: model "nope" not found`), true},
		{"bad request", errors.New("API returned unexpected status code: 400: invalid request"), true},
		{"unprocessable", errors.New("API returned unexpected status code: 422: bad payload"), true},
		{"rate limited", errors.New("API returned unexpected status code: 429: slow down"), false},
		{"server error", errors.New("API returned unexpected status code: 500: internal error"), false},
		{"network failure", errors.New("dial tcp 127.0.0.1:11434: connect: connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyServiceError(tt.err)
			assert.Equal(t, tt.permanent, ai.IsPermanent(got))
			assert.ErrorIs(t, got, tt.err, "the original error must stay reachable")
		})
	}
}

func TestClassifyServiceErrorNil(t *testing.T) {
	assert.NoError(t, classifyServiceError(nil))
}

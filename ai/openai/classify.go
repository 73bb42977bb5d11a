package openai

import (
	"regexp"

	"github.com/poiesic/scrivener/ai"
)

// clientErrStatusRe matches the client-error status codes OpenAI-compatible
// services report for rejected requests: bad payloads, bad credentials,
// unknown models. 429 and 5xx stay retryable.
var clientErrStatusRe = regexp.MustCompile(`status code: (400|401|403|404|422)\b`)

// classifyServiceError marks non-retryable service failures so the retry
// policy stops immediately instead of replaying a rejected request.
func classifyServiceError(err error) error {
	if err == nil {
		return nil
	}
	if clientErrStatusRe.MatchString(err.Error()) {
		return ai.Permanent(err)
	}
	return err
}

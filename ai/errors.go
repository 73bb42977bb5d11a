package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrService indicates a failure reported by an external AI service.
	ErrService = errors.New("ai service error")

	// ErrPermanent marks a service failure that will not succeed on retry,
	// such as a rejected request or a misconfigured model name.
	ErrPermanent = errors.New("permanent ai service error")

	// ErrEmptyResponse indicates the service answered but produced no content.
	ErrEmptyResponse = errors.New("ai service returned empty response")
)

// Permanent wraps err so that IsPermanent reports true for it.
// Wrapping nil returns nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// IsPermanent reports whether err is marked as non-retryable.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent)
}

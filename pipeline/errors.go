package pipeline

import "errors"

var (
	// ErrProviderRequired indicates a nil AI provider was passed.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrIndexCacheRequired indicates a nil index cache was passed.
	ErrIndexCacheRequired = errors.New("index cache is required")

	// ErrQueryCacheRequired indicates a nil query cache was passed.
	ErrQueryCacheRequired = errors.New("query cache is required")

	// ErrArtifactStoreRequired indicates a nil artifact store was passed.
	ErrArtifactStoreRequired = errors.New("artifact store is required")
)

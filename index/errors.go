package index

import "errors"

var (
	// ErrIndexBuild indicates the embedding service failed for every batch;
	// no index could be built. Fatal for the run.
	ErrIndexBuild = errors.New("index build failed: no batch could be embedded")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCacheRequired is returned when an index cache is not provided.
	ErrCacheRequired = errors.New("index cache required")
)

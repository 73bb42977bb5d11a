package generate

import "errors"

var (
	// ErrRetrieverRequired indicates a nil retriever was passed.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrCompleterRequired indicates a nil completer was passed.
	ErrCompleterRequired = errors.New("completer is required")

	// ErrQueryCacheRequired indicates a nil query cache was passed.
	ErrQueryCacheRequired = errors.New("query cache is required")

	// ErrLedgerRequired indicates a nil usage ledger was passed.
	ErrLedgerRequired = errors.New("usage ledger is required")
)

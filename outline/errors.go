package outline

import "errors"

var (
	// ErrGeneration indicates the outline call failed after exhausting
	// retries. This is fatal for the run.
	ErrGeneration = errors.New("outline generation failed")

	// ErrRetrieverRequired indicates a nil retriever was passed.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrCompleterRequired indicates a nil completer was passed.
	ErrCompleterRequired = errors.New("completer is required")

	// ErrLedgerRequired indicates a nil usage ledger was passed.
	ErrLedgerRequired = errors.New("usage ledger is required")
)

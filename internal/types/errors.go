package types

import "errors"

// Error kinds surfaced by the core flow. They are wrapped with %w at the point
// of failure, matched with errors.Is, and never recovered inside the core
// logic; every failure aborts the in-progress request.
var (
	// ErrSourceFetch indicates a Wikipedia article or web page could not be
	// retrieved.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrSchemaValidation indicates generated content did not match the target
	// record shape.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrPersistence indicates the per-city store could not be read or written.
	ErrPersistence = errors.New("persistence failed")

	// ErrReasoningIncomplete indicates the agent exhausted its iteration budget
	// without producing a final answer.
	ErrReasoningIncomplete = errors.New("reasoning did not produce a final answer")
)

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates a setting is out of range, such as a
	// non-positive token budget or batch size. Fatal at startup, never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingCredentials indicates a required API key or endpoint is not
	// configured. Fatal at startup, never retried.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrNoPassages indicates a document produced zero passages, usually an
	// empty or unreadable source. Reported to the operator; no output written.
	ErrNoPassages = errors.New("document produced no passages")

	// ErrTransient marks a provider failure that is expected to clear on its
	// own: network faults, rate limits, 5xx responses. Provider adapters wrap
	// their errors with this sentinel so callers can recognise the class.
	ErrTransient = errors.New("transient provider error")
)

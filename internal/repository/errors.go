package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a unique constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStaleCounter is returned by PersistCounter when the session's
	// counter moved under us and the compare-and-swap did not apply.
	ErrStaleCounter = errors.New("stale order counter")
)

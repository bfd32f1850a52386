package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
	// ErrIndexUnavailable means the full-text index is missing or unusable.
	ErrIndexUnavailable = errors.New("full-text index unavailable")
	// ErrMalformedQuery means the full-text engine rejected the query syntax.
	ErrMalformedQuery = errors.New("malformed full-text query")
)

package common

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrConflict is returned when a document write is based on a stale read.
	// The caller should reload and retry.
	ErrConflict = errors.New("document was modified concurrently")

	// ErrNotFound is returned for lookups of records that do not exist.
	ErrNotFound = errors.New("not found")
)

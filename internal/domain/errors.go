package domain

import "errors"

var (
	// ErrValidation marks client-caused input errors (missing or malformed fields).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups for entities that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks writes where the store reported an unexpected affected-row count.
	ErrPersistence = errors.New("persistence error")
	// ErrConflict marks state transitions that are no longer possible.
	ErrConflict = errors.New("conflict")
)

package domain

import "errors"

var (
	// ErrInvalidURL means the raw input could not be normalized into an
	// absolute URL. Surfaced before any side effect.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNotFound means the requested row does not exist for this owner.
	// Deletes treat it as a non-fatal outcome.
	ErrNotFound = errors.New("bookmark not found")
)

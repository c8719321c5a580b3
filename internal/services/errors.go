package services

import "errors"

var (
	// ErrNotFound is returned when a backup id does not exist.
	ErrNotFound = errors.New("backup not found")

	// ErrInvalidFormat is returned when an import payload is not an export
	// envelope with a prompts array.
	ErrInvalidFormat = errors.New("invalid data format")
)

package database

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrentModification is returned by versioned updates when the
	// row changed since it was read.
	ErrConcurrentModification = errors.New("record was modified concurrently")

	// ErrDuplicateUsername is returned when registering a username that is
	// already taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

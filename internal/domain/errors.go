package domain

import "errors"

var (
	// ErrNotFound is returned when a requested task does not exist
	ErrNotFound = errors.New("task not found")

	// ErrStorageUnavailable is returned when the persistence backend cannot be reached
	ErrStorageUnavailable = errors.New("storage unavailable")
)

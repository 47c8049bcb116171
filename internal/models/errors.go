package models

import "errors"

var (
	// ErrInvalidFormat marks user input that can be corrected and resubmitted.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrNotFound is returned when a pending request or admin does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned for operations the actor is not allowed to perform.
	ErrForbidden = errors.New("forbidden")
)

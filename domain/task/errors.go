package task

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no task exists for an identifier.
	ErrNotFound = errors.New("task not found")

	// ErrMalformedID is returned when an identifier is not in the store's format.
	ErrMalformedID = errors.New("malformed task id")
)

// ValidationError carries the list of field validation messages for a payload.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

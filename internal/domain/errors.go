package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common catalog failures
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping with context

var (
	// ErrInvalidInput indicates a form payload is missing a required field
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates the backend has no record with the requested id
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated indicates the session gate is closed
	ErrUnauthenticated = errors.New("not authenticated")
)

// field pairs a form field name with its submitted value for required checks.
type field struct {
	name  string
	value string
}

// required returns an error wrapping ErrInvalidInput naming the first blank field.
func required(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	return nil
}

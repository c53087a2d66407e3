/*
errors.go - Centralized error types for the budget engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculation packages (payroll, budget timeline) never return errors;
  these are raised at the storage and identity boundaries.

ERROR CATEGORIES:
  1. Validation errors - Malformed record refused before any write
  2. Storage errors - Read/write failures from the store, surfaced unchanged
  3. Lookup errors - Unknown expense id
  4. Identity errors - Rejected tokens

USAGE:
  if errors.Is(err, generic.ErrValidation) {
      // show the form error, nothing was written
  }

SEE ALSO:
  - budget/service.go: Raises ValidationError and StorageError
  - api/handlers.go: Maps these to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when a record is refused before reaching storage.
	ErrValidation = errors.New("validation failed")

	// ErrStorage is returned when the store fails a read or write.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound is returned when a referenced expense doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when an identity token is rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StorageError wraps a failure from the store. It matches both ErrStorage and
// the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// WrapStorage returns nil for a nil err.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized returns true if the caller's identity was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

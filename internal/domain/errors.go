// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the task lifecycle. Callers check them with
// errors.Is and translate them into whatever protocol they speak.
var (
	// ErrValidation is returned when input is malformed. It is detected
	// before any lookup and is usually wrapped in a ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced task or user does not exist,
	// or when it exists but is hidden from the actor.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the actor's role or relationship to
	// the task forbids the requested operation.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrInvalidTransition is returned when a status change is not legal for
	// the actor's role from the task's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidID is returned when an ID is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so errors.Is(err, ErrValidation) holds.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation for every ValidationError, whatever it wraps.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for field. If err is nil the
// error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

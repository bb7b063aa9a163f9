package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRole is returned for role values outside the Role enumeration.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidStatus is returned for status values outside the Status enumeration.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrPermissionDenied is returned when the acting profile may not perform
	// an action, including lifecycle transitions whose preconditions fail.
	// Callers treat it as a silent no-op rather than a user-facing error.
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field. A nil err is
// replaced by ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// FieldErrors flattens err into a field -> message map. It understands a
// single *ValidationError as well as errors.Join trees of them. The first
// message per field wins. Returns nil when err carries no field errors.
func FieldErrors(err error) map[string]string {
	fields := map[string]string{}
	collectFieldErrors(err, fields)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func collectFieldErrors(err error, into map[string]string) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collectFieldErrors(e, into)
		}
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if _, seen := into[ve.Field]; !seen {
			into[ve.Field] = ve.Message
		}
	}
}

// Package shared contains common domain errors used across the agenda packages.
// This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidFormat = errors.New("invalid format")

	// Persistence errors
	ErrMalformedRecord = errors.New("malformed stored record")
	ErrStoreRead       = errors.New("store read failed")
	ErrStoreWrite      = errors.New("store write failed")
	ErrStoreClosed     = errors.New("store closed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "schedule", "store"
	Op      string // Operation that failed, e.g., "Decode", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Schedule domain errors
var (
	ErrInvalidDate      = NewDomainError("schedule", "Validate", ErrInvalidFormat, "date must be YYYY-MM-DD")
	ErrInvalidTime      = NewDomainError("schedule", "Validate", ErrInvalidFormat, "slot time must be HH:MM")
	ErrInvalidStatus    = NewDomainError("schedule", "Validate", ErrInvalidInput, "unknown attendance status")
	ErrDuplicateSlot    = NewDomainError("schedule", "Validate", ErrAlreadyExists, "slot time repeated within a day")
	ErrDuplicateStudent = NewDomainError("schedule", "Validate", ErrAlreadyExists, "student id repeated within a slot")
	ErrNegativeCapacity = NewDomainError("schedule", "Validate", ErrInvalidInput, "capacity cannot be negative")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrAlreadyExists)
}

// IsStoreFailure checks if the error came from the key-value store.
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreRead) ||
		errors.Is(err, ErrStoreWrite) ||
		errors.Is(err, ErrStoreClosed)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput covers missing, non-numeric, non-positive or
	// unrecognised request values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnrepresentable is returned when a valid input produces a
	// non-finite result.
	ErrUnrepresentable = errors.New("result is not representable")
)

const (
	ReasonMissing     = "missing"
	ReasonNotNumber   = "not a number"
	ReasonNotPositive = "must be positive"
	ReasonUnsupported = "unsupported value"
	ReasonTooLarge    = "exceeds maximum"
)

// ValidationError names the offending field. It matches ErrInvalidInput
// under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

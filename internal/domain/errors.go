package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// Upstream model failures. Annotator adapters wrap one of these together with
// the underlying cause.
var (
	ErrUpstreamQuota     = errors.New("model quota exceeded")
	ErrUpstreamAuth      = errors.New("model authentication failed")
	ErrUpstreamMalformed = errors.New("model returned malformed response")
	ErrUpstreamNetwork   = errors.New("model unreachable")
)

// UpstreamKind returns a short label for a classified upstream error, or ""
// when err is not one.
func UpstreamKind(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamQuota):
		return "quota"
	case errors.Is(err, ErrUpstreamAuth):
		return "auth"
	case errors.Is(err, ErrUpstreamMalformed):
		return "malformed"
	case errors.Is(err, ErrUpstreamNetwork):
		return "network"
	}
	return ""
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

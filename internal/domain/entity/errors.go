package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the processing pipeline to its callers.
var (
	// ErrMissingInput indicates that neither text nor URL was supplied.
	ErrMissingInput = errors.New("text or url is required")

	// ErrInvalidInput indicates a malformed request field (unknown enum value, bad URL).
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelInvocation indicates the LLM provider returned no parseable structured output.
	ErrModelInvocation = errors.New("model returned no usable output")

	// ErrEmptyInput indicates there was nothing to count or display after resolution.
	ErrEmptyInput = errors.New("no text to process, please provide text or a valid url")
)

// ValidationError describes which request field failed validation.
// It unwraps to ErrInvalidInput so callers can match on the sentinel.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

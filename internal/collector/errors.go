package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when a payload does not match the expected envelope
	ErrParse = errors.New("parse error")
	// ErrValidation is returned when a parsed record breaks the UTC time invariant
	ErrValidation = errors.New("validation error")
)

// ValidationError identifies the offending record
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ParseErrorf wraps a parse failure with ErrParse
func ParseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

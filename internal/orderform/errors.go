package orderform

import (
	"errors"
	"strings"
)

// ValidationError reports every form rule the current selection breaks.
// It is an expected, recoverable outcome: callers present the reasons to the
// user instead of treating it as a transport failure.
type ValidationError struct {
	Reasons []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid order: " + strings.Join(e.Reasons, "; ")
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

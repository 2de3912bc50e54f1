package dice

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or out-of-domain argument.
type ValidationError struct {
	Op  string
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// LookupError reports a face label that is not part of a die's face set.
type LookupError struct {
	Op   string
	Face Face
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %q is not one of the die's faces", e.Op, e.Face.String())
}

func validationf(op, format string, args ...any) error {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsLookup reports whether err wraps a *LookupError.
func IsLookup(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

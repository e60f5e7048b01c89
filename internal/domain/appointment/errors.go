package appointment

import "errors"

// ValidationError reports structurally invalid scheduling input: bad
// durations, inverted time ranges, malformed shop hours, past
// date/times. It always surfaces to the caller, never gets swallowed.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// NewValidationError is the exported constructor for callers outside
// the package (range validation, use cases).
func NewValidationError(msg string) error {
	return validationError(msg)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

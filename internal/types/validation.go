package types

import "errors"

// ValidationError is an input rejection with a client-facing message.
// Handlers surface the message verbatim with a 400; anything else that
// goes wrong stays behind a generic error body.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

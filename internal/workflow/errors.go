package workflow

import "errors"

// ValidationError reports a failed local precondition (bad file type, empty
// input, inconsistent form fields). It is produced before any network call
// and never alters in-flight state.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrBusy rejects an action that would overlap an in-flight request for the
// same controller. Callers treat it as "ignore the action": no state changed.
var ErrBusy = errors.New("a request is already in flight")

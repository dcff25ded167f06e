package skuapi

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for HTTP 401. The caller must drop its
// credential and force a new login.
var ErrUnauthorized = errors.New("UNAUTHORIZED")

// ErrMissingToken is returned when a login succeeds at the HTTP level but the
// response carries no token.
var ErrMissingToken = errors.New("MISSING_TOKEN")

// ValidationError is a structured rejection from the server. Message is meant
// to be shown to the user verbatim.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rejected (%d): %s", e.Status, e.Message)
}

// TransportError covers network failures, unexpected statuses without a
// message, and undecodable responses. Status is 0 when no response arrived.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: http error: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is or wraps ErrUnauthorized.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// AsValidation extracts a ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

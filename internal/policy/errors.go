package policy

import (
	"errors"
	"fmt"
)

// DeniedError is returned when a role/ownership check fails for a mutation.
// It names the attempted action so the transport layer can surface it.
type DeniedError struct {
	Action string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Action)
}

// Denied builds a DeniedError for the given action.
func Denied(action string) error {
	return &DeniedError{Action: action}
}

// IsDenied reports whether err is an authorization denial.
func IsDenied(err error) bool {
	var d *DeniedError
	return errors.As(err, &d)
}

// ValidationError is returned for a missing or malformed request parameter,
// before any scope or mutation logic runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

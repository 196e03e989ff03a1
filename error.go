package beautrafil

import (
	"errors"
	"fmt"
)

// Application error codes. These are machine-readable codes that adapters
// map to their own error surfaces (CLI exit messages, log fields).
const (
	EINVALID    = "invalid"    // validation failed
	EINTERNAL   = "internal"   // internal error
	ENOTFOUND   = "not_found"  // entity does not exist
	ELAUNCH     = "launch"     // browser session could not start
	ENAVIGATION = "navigation" // navigation to the target URL failed
	ETIMEOUT    = "timeout"    // deadline exceeded before completion
)

// Error represents an application-specific error with a machine-readable
// code and a human-readable message.
type Error struct {
	// Code is one of the application error code constants.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("beautrafil error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper to construct an Error with formatted message fields.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL; nil returns an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message; nil returns an empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

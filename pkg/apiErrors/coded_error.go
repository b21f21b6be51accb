package apiErrors

import "github.com/pkg/errors"

// Error is a coded error raised below the HTTP surface. The handler layer
// maps its code to a status; everything else treats it as a plain error.
type Error struct {
	Code    string
	Message string
	cause   error
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the code from an error chain, defaulting to
// ErrInternalServer for unclassified failures.
func CodeOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrInternalServer
}

// IsClientError reports whether the error maps to a 4xx status.
func IsClientError(err error) bool {
	return StatusFor(CodeOf(err)) < 500
}

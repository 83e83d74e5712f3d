// Package apperr defines the error taxonomy shared by repositories, the token
// manager and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeUnknown       Code = "UNKNOWN"
	CodeValidation    Code = "VALIDATION"
	CodeAuth          Code = "AUTH"
	CodeConflict      Code = "CONFLICT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConfiguration Code = "CONFIGURATION"
	CodeUnavailable   Code = "UNAVAILABLE"
)

// HTTPStatus maps a code to the status the API answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeAuth:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error. Message is safe to show to clients.
type Error struct {
	Code    Code
	Message string
	Field   string // offending field for validation and conflict errors
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels usable with errors.Is.
var (
	ErrValidation    = &Error{Code: CodeValidation}
	ErrAuth          = &Error{Code: CodeAuth}
	ErrConflict      = &Error{Code: CodeConflict}
	ErrNotFound      = &Error{Code: CodeNotFound}
	ErrConfiguration = &Error{Code: CodeConfiguration}
	ErrUnavailable   = &Error{Code: CodeUnavailable}
)

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// ValidationField reports invalid input for a named field.
func ValidationField(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

func Auth(message string) *Error {
	return &Error{Code: CodeAuth, Message: message}
}

// AuthWrap keeps the verification failure as the cause for logs.
func AuthWrap(message string, cause error) *Error {
	return &Error{Code: CodeAuth, Message: message, Cause: cause}
}

func Conflict(field, message string) *Error {
	return &Error{Code: CodeConflict, Message: message, Field: field}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Configuration(message string) *Error {
	return &Error{Code: CodeConfiguration, Message: message}
}

func Unavailable(message string) *Error {
	return &Error{Code: CodeUnavailable, Message: message}
}

// GetCode extracts the code from any error; non-domain errors are CodeUnknown.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// As returns the domain error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

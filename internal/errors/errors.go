// Package errors provides the domain error taxonomy shared by the store and
// the HTTP layer. Store code returns typed errors; controllers translate them
// into a status code and a JSON body through HTTPStatus.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Is = errors.Is
	As = errors.As
)

type Code string

const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeValidation     Code = "VALIDATION"
	CodeMalformedInput Code = "MALFORMED_INPUT"
	CodeStorage        Code = "STORAGE"
	CodeForbidden      Code = "FORBIDDEN"
	CodeInternal       Code = "INTERNAL"
)

func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeMalformedInput:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

var (
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation     = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrMalformedInput = &Error{Code: CodeMalformedInput, Message: "malformed input"}
	ErrStorage        = &Error{Code: CodeStorage, Message: "storage failure"}
	ErrForbidden      = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInternal       = &Error{Code: CodeInternal, Message: "internal error"}
)

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails carries per-field messages in Details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

func Malformed(err error) *Error {
	return &Error{Code: CodeMalformedInput, Message: "malformed input", cause: err}
}

func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Message: "storage failure", cause: err}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// From converts any error into a domain error. Errors that are not already
// domain errors become CodeInternal with the original kept as cause.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeInternal, Message: "internal error", cause: err}
}

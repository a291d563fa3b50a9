// Package apperr defines client-facing errors with a stable code and HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable machine-readable error code.
type Code string

const (
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL"
)

// Error is an error whose message is safe to show to clients.
type Error struct {
	Code    Code
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, status int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Status: status}
}

func BadRequest(format string, args ...any) *Error {
	return newError(CodeBadRequest, http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(CodeUnauthorized, http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(CodeForbidden, http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(CodeNotFound, http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(CodeConflict, http.StatusConflict, format, args...)
}

// As returns the *Error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err; anything that is not an *Error is a 500.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}

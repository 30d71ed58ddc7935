/*
 * @module service/qcerror
 * @description Typed domain errors shared by the QC services and mapped to HTTP status by controllers
 * @architecture Layered architecture - cross-cutting error classification
 * @stateFlow error raised -> classified -> wrapped with %w -> mapped at the boundary
 * @rules A missing specification is never an error; only the four types below cross package boundaries
 * @dependencies errors, fmt
 * @refs service/measurement/recorder.go, api/controllers/response.go
 */

package qcerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies a domain failure.
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error is a classified domain error.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFound reports a missing entity.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a state or uniqueness conflict.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeConflict, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure, typically from the database.
func Internal(cause error, format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeInternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// TypeOf returns the type of the first *Error in err's chain, or internal.
func TypeOf(err error) ErrorType {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries the given type.
func IsType(err error, t ErrorType) bool {
	var qe *Error
	return errors.As(err, &qe) && qe.Type == t
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

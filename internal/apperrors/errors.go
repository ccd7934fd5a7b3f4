// Package apperrors carries the error taxonomy surfaced to API callers.
package apperrors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class in responses.
type ErrorCode string

const (
	CodeNotAuthenticated    ErrorCode = "NOT_AUTHENTICATED"
	CodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeForbidden           ErrorCode = "FORBIDDEN"
	CodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// AppError is an error with a stable code and HTTP status.
type AppError struct {
	Code     ErrorCode
	Message  string
	HTTPCode int
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so that errors.Is(err, ErrForbidden) holds for any
// forbidden error regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode, Err: err}
}

var (
	ErrNotAuthenticated    = New(CodeNotAuthenticated, "authentication required", http.StatusUnauthorized)
	ErrUserNotFound        = New(CodeUserNotFound, "user not found", http.StatusNotFound)
	ErrNotFound            = New(CodeNotFound, "not found", http.StatusNotFound)
	ErrForbidden           = New(CodeForbidden, "forbidden", http.StatusForbidden)
	ErrValidation          = New(CodeValidationFailed, "validation failed", http.StatusBadRequest)
	ErrConstraintViolation = New(CodeConstraintViolation, "constraint violation", http.StatusConflict)
)

func NotAuthenticated(message string) *AppError {
	return New(CodeNotAuthenticated, message, http.StatusUnauthorized)
}

func UserNotFound(message string) *AppError {
	return New(CodeUserNotFound, message, http.StatusNotFound)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func Validation(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

func Constraint(message string, err error) *AppError {
	return Wrap(err, CodeConstraintViolation, message, http.StatusConflict)
}

func Internal(err error) *AppError {
	return Wrap(err, CodeInternalError, "internal server error", http.StatusInternalServerError)
}

// From returns err as an *AppError, wrapping unknown errors as internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

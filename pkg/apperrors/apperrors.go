package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Code identifies an error category with a stable HTTP mapping
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL"
)

// AppError is the application error carried from services up to handlers.
// Message is safe to return to clients; Err holds the wrapped cause and is
// only ever logged server-side.
type AppError struct {
	Code       Code
	HTTPStatus int
	Message    string
	MessageAr  string        // optional localized message for the errorAr field
	RetryAfter time.Duration // only set for rate-limit errors
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithArabic attaches a localized message returned as errorAr
func (e *AppError) WithArabic(msg string) *AppError {
	e.MessageAr = msg
	return e
}

func newError(code Code, status int, message string) *AppError {
	return &AppError{Code: code, HTTPStatus: status, Message: message}
}

func Validation(message string) *AppError {
	return newError(CodeValidation, http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, http.StatusConflict, message)
}

// RateLimited reports an exhausted brute-force budget; retryAfter is the
// remaining block time communicated to the client.
func RateLimited(retryAfter time.Duration) *AppError {
	e := newError(CodeRateLimited, http.StatusTooManyRequests, "too many attempts, try again later")
	e.RetryAfter = retryAfter
	return e
}

// Internal wraps an unexpected failure. The cause is kept for server-side
// logging only; clients receive the generic message.
func Internal(err error) *AppError {
	e := newError(CodeInternal, http.StatusInternalServerError, "internal server error")
	e.Err = err
	return e
}

// As extracts an *AppError from an error chain. Anything that is not an
// AppError is treated as Internal by callers.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

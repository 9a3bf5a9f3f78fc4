// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type that crosses the service/transport boundary.

Domain packages declare their failures once as package-level values built with
the constructors below. Storage code attaches the low-level cause with
[AppError.WithCause]; the copy still matches the declared value under
[errors.Is], so services and tests can compare against sentinels while logs
keep the full chain.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status, a stable machine-readable code and a
// client-safe message. Cause is logged server-side and never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`

	// RetryAfter is the number of seconds a throttled client should wait.
	RetryAfter int `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New builds an [AppError]. Prefer the named constructors.
func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another [AppError] with the same code and message, so a copy made
// by [AppError.WithCause] still equals the value it was made from.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && other.Code == e.Code && other.Message == e.Message
}

// WithCause returns a copy of e that wraps cause.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Client Errors (4xx)

// NotFound creates a 404 for a named resource, e.g. NotFound("Product").
func NotFound(resource string) *AppError {
	return New(http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

// Unauthorized creates a 401 carrying a specific code, so clients can tell
// authentication failures apart.
func Unauthorized(code, message string) *AppError {
	return New(http.StatusUnauthorized, code, message)
}

// Conflict creates a 409 for duplicate or unique-constraint violations.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, "CONFLICT", message)
}

// ValidationError creates a 400 with optional per-field details.
func ValidationError(message string, details ...FieldError) *AppError {
	appError := New(http.StatusBadRequest, "VALIDATION_ERROR", message)
	appError.Details = details
	return appError
}

// Unprocessable creates a 422 for well-formed input that breaks a business rule.
func Unprocessable(message string) *AppError {
	return New(http.StatusUnprocessableEntity, "UNPROCESSABLE", message)
}

// RateLimited creates a 429 that tells the client when to retry.
func RateLimited(retryAfterSeconds int) *AppError {
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	appError := New(http.StatusTooManyRequests, "RATE_LIMITED",
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
	appError.RetryAfter = retryAfterSeconds
	return appError
}

// # Server Errors (5xx)

// Internal creates a 500 wrapping an unexpected server-side error.
func Internal(cause error) *AppError {
	appError := New(http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	appError.Cause = cause
	return appError
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As extracts the first [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

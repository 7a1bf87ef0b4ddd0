package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input. Message is shown to the caller as-is.
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates a credential was presented but rejected
	ForbiddenError struct {
		Message string
	}

	// ConflictError indicates a concurrent write won; the caller may retry
	ConflictError struct {
		Message string
	}

	// ContentTooLargeError indicates a block tree exceeded the configured node budget
	ContentTooLargeError struct {
		Message string
		Limit   int
	}
)

func (e *NotFoundError) Error() string        { return e.Message }
func (e *ValidationError) Error() string      { return e.Message }
func (e *UnauthorizedError) Error() string    { return e.Message }
func (e *ForbiddenError) Error() string       { return e.Message }
func (e *ConflictError) Error() string        { return e.Message }
func (e *ContentTooLargeError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int        { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int    { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int       { return http.StatusForbidden }
func (e *ConflictError) StatusCode() int        { return http.StatusConflict }
func (e *ContentTooLargeError) StatusCode() int { return http.StatusUnprocessableEntity }

// Is lets typed errors match their sentinel with errors.Is.
func (e *NotFoundError) Is(target error) bool        { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool      { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool    { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool       { return target == ErrForbidden }
func (e *ConflictError) Is(target error) bool        { return target == ErrConflict }
func (e *ContentTooLargeError) Is(target error) bool { return target == ErrContentTooLarge }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrContentTooLarge = errors.New("content too large")
)

// NewValidationError is shorthand for a caller-facing 400 message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

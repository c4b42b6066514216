// Package apperrors defines the error taxonomy shared by services and
// handlers, and centralizes mapping to HTTP status codes.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	// ErrNotAuthenticated is returned when an operation runs without a
	// resolved user identity.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrQuotaExceeded is returned when a daily like/super-like budget is
	// exhausted. Handlers surface it as a normal response, not a failure.
	ErrQuotaExceeded = errors.New("daily quota exceeded")

	// ErrInvalidArgument is returned for self-targeting, empty text,
	// malformed coordinates and similar caller mistakes. Raised before any
	// store call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps transient backend failures. No automatic
	// retry; callers surface a generic try-again message.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InvalidArgument wraps ErrInvalidArgument with a reason.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// HTTPStatus maps a service error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-visible message for an error. Internal details
// never leak past this point.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "Authentication required"
	case errors.Is(err, ErrInvalidArgument):
		return err.Error()
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return "Not found"
	case errors.Is(err, ErrQuotaExceeded):
		return "Daily limit reached, come back tomorrow"
	default:
		return "Something went wrong, please try again"
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for the failure taxonomy. Services wrap these with
// fmt.Errorf("...: %w", ...) and the HTTP layer maps them to a status
// and wire code with errors.Is.
var (
	// ErrNotFound: a referenced id is absent and the caller is allowed
	// to know that.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: uniqueness violation on an insert the caller
	// issued directly (profile re-registration).
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict: uniqueness violation detected by the data layer on a
	// concurrent create (duplicate evaluation session).
	ErrConflict = errors.New("conflict")
	// ErrForbidden: policy denial. Also returned when a resource does not
	// exist but the caller has no right to learn that.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument: malformed input (score out of range, bad PIN,
	// unknown role).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState: action against a terminal or inconsistent session
	// state.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnauthorized: missing or unverifiable caller identity.
	ErrUnauthorized = errors.New("unauthorized")
)

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func AlreadyExists(format string, args ...any) error {
	return wrap(ErrAlreadyExists, format, args...)
}

func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func Forbidden(format string, args ...any) error {
	return wrap(ErrForbidden, format, args...)
}

func InvalidArgument(format string, args ...any) error {
	return wrap(ErrInvalidArgument, format, args...)
}

func InvalidState(format string, args ...any) error {
	return wrap(ErrInvalidState, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return wrap(ErrUnauthorized, format, args...)
}

func wrap(sentinel error, format string, args ...any) error {
	if format == "" {
		return sentinel
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

// Status returns the HTTP status and wire code for err, defaulting to 500.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

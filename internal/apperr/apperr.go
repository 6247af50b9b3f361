// Package apperr defines the error kinds returned by the service layer.
// Handlers translate a Kind into an HTTP status; repositories never build
// these values directly and instead return their own sentinels which the
// services wrap.
package apperr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http"
)

// Kind classifies a failure for the caller.
type Kind uint8

const (
	Internal Kind = iota
	Conflict
	Unauthorized
	Forbidden
	NotFound
	InvalidArgument
	BadRequest
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case InvalidArgument:
		return "invalid_argument"
	case BadRequest:
		return "bad_request"
	case Unavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the status code used by the API.
func (k Kind) HTTPStatus() int {
	switch k {
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidArgument, BadRequest:
		return http.StatusBadRequest
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Msg is safe to show to API clients; Err
// keeps the underlying cause for logs and errors.Is checks.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error without an underlying cause.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// Wrap classifies err. Storage connectivity failures are promoted to
// Unavailable regardless of the requested kind so callers know they may
// retry.
func Wrap(kind Kind, msg string, err error) *Error {
	if isUnavailable(err) {
		kind = Unavailable
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of err, or Internal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if isUnavailable(err) {
		return Unavailable
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

func isUnavailable(err error) bool {
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Message returns the client-safe message of err.  Unclassified errors
// never leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Msg
	}
	if KindOf(err) == Unavailable {
		return "service temporarily unavailable"
	}
	return "internal server error"
}

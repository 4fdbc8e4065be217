package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a caller-visible failure. Every error surfaced by the API
// carries exactly one kind alongside a human-readable message.
type Kind string

const (
	KindInvalidArgument   Kind = "invalid_argument"
	KindUnauthenticated   Kind = "unauthenticated"
	KindUnauthorized      Kind = "unauthorized"
	KindNotFound          Kind = "not_found"
	KindResourceExhausted Kind = "resource_exhausted"
	KindInternal          Kind = "internal"
)

// Error is the caller-visible error shape: a {kind, message} pair.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func InvalidArgument(message string) *Error   { return New(KindInvalidArgument, message) }
func Unauthenticated(message string) *Error   { return New(KindUnauthenticated, message) }
func Unauthorized(message string) *Error      { return New(KindUnauthorized, message) }
func NotFound(message string) *Error          { return New(KindNotFound, message) }
func ResourceExhausted(message string) *Error { return New(KindResourceExhausted, message) }
func Internal(message string) *Error          { return New(KindInternal, message) }

// HTTPStatus maps an error kind to its HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated, KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// From converts an arbitrary error into an *Error. Errors that are already
// typed pass through unchanged; everything else becomes an internal error
// with a generic message so implementation details never leak to callers.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("unexpected internal error")
}

package api

import (
	"fmt"
	"net/http"
)

// Error is a client-facing API error. Message may be empty, in which case
// the response body is omitted entirely.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewValidationError creates a 400 error carrying the triggering message.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewAuthenticationError creates a 401 error. No message is carried; the
// transport layer adds the WWW-Authenticate challenge header.
func NewAuthenticationError() *Error {
	return &Error{Status: http.StatusUnauthorized}
}

// NewForbiddenError creates a 403 error with no message.
func NewForbiddenError() *Error {
	return &Error{Status: http.StatusForbidden}
}

// NewNotFoundError creates a 404 error with no message and no detail.
func NewNotFoundError() *Error {
	return &Error{Status: http.StatusNotFound}
}

// NewRateLimitedError creates a 429 error with a retry hint message.
func NewRateLimitedError() *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: "too many requests"}
}

// NewServerError creates a 500 error with a fixed generic message.
// Internal detail is never echoed to the client.
func NewServerError() *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error"}
}

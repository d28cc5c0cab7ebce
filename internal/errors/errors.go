package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// IsNotFound reports whether err carries a 404 status code.
func IsNotFound(err error) bool {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// NotFound builds a 404 error with the given message.
func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

// AccessDenied is the generic denial surfaced to end users. It deliberately
// carries no detail about which check failed so whitelist membership
// cannot be probed.
func AccessDenied() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Access denied", StatusCode: http.StatusForbidden}
}

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingID is returned when a single-item operation gets an empty id.
var ErrMissingID = errors.New("missing id")

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.StatusCode)
	if text == "" {
		text = e.Status
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, text)
}

// RequestError wraps any failure of an access operation with the operation
// name and, for single-item operations, the item id.
type RequestError struct {
	Op  string
	ID  string
	Err error
}

func (e *RequestError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status behind err, or 0 if err did not come
// from a response.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err came from a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether the API rejected the token.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

package dgc

import (
	"errors"
	"fmt"
)

// Sentinel errors for the catalog's HTTP error classes. They are reachable
// through errors.Is on any *Error returned by the client.
var (
	// ErrUnauthorized indicates invalid credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates insufficient permissions (HTTP 403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")
	// ErrServer indicates a 5xx response from the catalog.
	ErrServer = errors.New("server error")
)

// Error is an HTTP-level error returned by the catalog API.
type Error struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Method and Path identify the failed request.
	Method string
	Path   string
	// Body is the raw response body, useful for diagnostics.
	Body string
}

func (e *Error) Error() string {
	return fmt.Sprintf("dgc: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap maps the status code onto the matching sentinel so callers can use
// errors.Is(err, dgc.ErrNotFound) and friends.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == 401:
		return ErrUnauthorized
	case e.StatusCode == 403:
		return ErrForbidden
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}

// retryable reports whether a response status is worth retrying.
// Only transient server-side failures qualify; 4xx responses never do.
func (e *Error) retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

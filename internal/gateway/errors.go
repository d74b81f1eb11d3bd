package gateway

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated means an operation requiring a logged-in user ran
// without one. It is a local condition, never a server response.
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is a server-reported failure: validation, not-found, unauthorized.
// Message carries the server's human-readable error text when one was sent.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.StatusCode)
}

// Unauthorized reports whether the server rejected the bearer token.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == 401
}

// Message normalizes any gateway failure to a display string: the server's
// message when present, otherwise the per-operation fallback. Transport
// errors (no response at all) always map to the fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

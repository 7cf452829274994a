package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBaseURL is returned when constructing a client without an API base URL.
	ErrMissingBaseURL = errors.New("API base URL is required")
	// ErrMissingTokenSource is returned when constructing a client without a token source.
	ErrMissingTokenSource = errors.New("token source is required")
)

// APIError is a non-2xx registry response surfaced by the JSON helpers.
// Auth failures (401/403) never reach this type; they are converted to
// session.ErrSessionExpired by Do.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d", e.Status)
}

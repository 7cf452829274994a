package notification

import "errors"

var (
	// ErrMissingSocketURL is returned when constructing a feed without a socket endpoint.
	ErrMissingSocketURL = errors.New("notification socket URL is required")
	// ErrMissingCollaborator is returned when the token source or event broadcaster is absent.
	ErrMissingCollaborator = errors.New("token source and event broadcaster are required")
)

package session

import "errors"

var (
	// ErrNotAuthenticated is returned when no session exists and the caller
	// must log in before talking to the registry.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired is returned after any fatal auth failure: expired
	// refresh token, failed refresh exchange, or a 401/403 on a wrapped
	// request. By the time a caller observes it, local teardown has already
	// happened.
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidCredentials is returned when the login exchange is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingAuthURL is returned when constructing a manager without an
	// auth endpoint base URL.
	ErrMissingAuthURL = errors.New("auth base URL is required")
	// ErrMissingStore is returned when constructing a manager without a
	// backing store.
	ErrMissingStore = errors.New("session store is required")
)

package session

import (
	"time"
)

// TokenPair mirrors the token response returned by the auth endpoints
// (login and refresh share the same shape).
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope,omitempty"`
	User             *User  `json:"user,omitempty"`
}

// Session is a point-in-time snapshot of the persisted credentials.
// Expiry instants are absolute wall-clock times; remaining lifetimes are
// derived against a caller-supplied now so tests can control time.
type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             *User
}

// ExpiresIn returns the remaining access-token lifetime in whole seconds,
// clamped to zero.
func (s Session) ExpiresIn(now time.Time) int64 {
	return remainingSeconds(s.AccessExpiresAt, now)
}

// RefreshExpiresIn returns the remaining refresh-token lifetime in whole
// seconds, clamped to zero.
func (s Session) RefreshExpiresIn(now time.Time) int64 {
	return remainingSeconds(s.RefreshExpiresAt, now)
}

// Stale reports whether the access token is within margin of its expiry and
// must be refreshed before use.
func (s Session) Stale(now time.Time, margin time.Duration) bool {
	if s.AccessExpiresAt.IsZero() {
		return true
	}
	return now.After(s.AccessExpiresAt.Add(-margin))
}

// RefreshExpired reports whether the refresh token itself is unusable and
// re-authentication is mandatory.
func (s Session) RefreshExpired(now time.Time) bool {
	return !s.RefreshExpiresAt.IsZero() && now.After(s.RefreshExpiresAt)
}

func remainingSeconds(expiry, now time.Time) int64 {
	if expiry.IsZero() {
		return 0
	}
	secs := int64(expiry.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

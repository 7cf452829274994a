package session

import "context"

// Persisted key layout. Values are strings; expiry instants are stored as
// epoch milliseconds to match what other clients of the same registry write.
const (
	KeyAccessToken      = "access_token"
	KeyRefreshToken     = "refresh_token"
	KeyExpiresAt        = "expires_at"
	KeyRefreshExpiresAt = "refresh_expires_at"
	KeyUser             = "user"
)

// sessionKeys lists every key the manager owns, in teardown order.
var sessionKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyUser,
	KeyExpiresAt,
	KeyRefreshExpiresAt,
}

// Store is the key/value persistence capability the manager requires.
// A missing key is not an error: Get returns an empty string for it.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

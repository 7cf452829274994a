package session

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultRefreshMargin is how long before access-token expiry the
	// scheduler fires a proactive refresh.
	DefaultRefreshMargin = 30 * time.Second
	// DefaultStaleMargin is the safety window within which an access token
	// is treated as unusable by outgoing requests.
	DefaultStaleMargin = 10 * time.Second
)

// Option is a functional option for configuring the session manager.
type Option func(*Manager)

// WithHTTPClient sets the HTTP client used for the auth endpoints.
// Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.http = client
		}
	}
}

// WithClock injects a custom clock, primarily for deterministic tests.
func WithClock(clock Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLogger configures structured logging for the manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithNotifier sets the in-process publisher for session lifecycle events.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.local = n
	}
}

// WithRemoteBroadcaster sets the cross-process publisher used to fan out
// logout events to sibling windows or instances.
func WithRemoteBroadcaster(n Notifier) Option {
	return func(m *Manager) {
		m.remote = n
	}
}

// WithLoginRequiredFunc registers the redirect-to-login boundary. The hook
// runs after every fatal teardown, once cleanup has completed.
func WithLoginRequiredFunc(fn func()) Option {
	return func(m *Manager) {
		m.onLoginRequired = fn
	}
}

// WithRefreshMargin overrides how long before expiry the proactive refresh fires.
func WithRefreshMargin(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.refreshMargin = d
		}
	}
}

// WithStaleMargin overrides the staleness window for outgoing requests.
func WithStaleMargin(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.staleMargin = d
		}
	}
}

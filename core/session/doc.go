// Package session manages the client-side authentication session for the
// clinic registry API: token acquisition, tab-scoped persistence, proactive
// refresh scheduling, single-flight refresh coordination, and teardown with
// cross-context notification.
//
// # Lifecycle
//
// A session is created by Login (credentials exchanged for an access/refresh
// token pair), mutated by every successful Refresh (new pair replaces the
// old, timer rescheduled), and destroyed by Logout, by a failed refresh, or
// by any wrapped request observing a 401/403. The manager guarantees that by
// the time a caller sees ErrSessionExpired, local cleanup has already
// happened.
//
//	store := session.NewMemoryStore()
//	manager, err := session.New("https://registry.example.com/api/auth", store,
//		session.WithNotifier(bus),
//		session.WithLoginRequiredFunc(redirectToLogin),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.Login(ctx, username, password)
//
// # Refresh coordination
//
// The access token is refreshed proactively 30 seconds before expiry by an
// armed timer, and reactively whenever Token finds it within 10 seconds of
// expiry. Both paths converge on a single shared in-flight future: any
// number of simultaneous callers produce exactly one network round-trip and
// resolve together. A refresh failure is fatal rather than retried, since it
// indicates the refresh token itself is no longer honored.
//
// # Persistence
//
// Tokens and their absolute expiry instants are written through the Store
// interface under fixed keys (access_token, refresh_token, expires_at,
// refresh_expires_at, user), expiries as epoch milliseconds. MemoryStore is
// the in-process default; the integration packages provide Redis and
// encrypted-file stores with the same three-operation capability set.
//
// # Events
//
// Every token write or clear publishes an auth-changed event on the
// configured in-process notifier; teardown additionally fans a logout event
// out through the remote broadcaster so sibling windows can drop their
// sessions. Collaborators like the notification feed subscribe to these
// instead of polling the store.
package session

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/clinreg/clinreg-go/core/logger"
	"github.com/clinreg/clinreg-go/pkg/async"
	"github.com/clinreg/clinreg-go/pkg/broadcast"
)

// Manager owns the full session lifecycle: credential exchange, tab-scoped
// persistence, proactive refresh scheduling, single-flight refresh
// coordination, and teardown with cross-context notification.
//
// State machine: Unauthenticated -> Authenticated (timer armed) ->
// Refreshing (pending refresh set) -> Authenticated (timer re-armed), with
// every state transitioning to Unauthenticated on teardown.
type Manager struct {
	authURL string
	http    *http.Client
	kv      Store
	clock   Clock
	log     *slog.Logger
	local   Notifier
	remote  Notifier

	onLoginRequired func()
	refreshMargin   time.Duration
	staleMargin     time.Duration

	mu      sync.Mutex
	pending *async.ExecFuture
	timer   Timer
}

// New creates a session manager for the auth endpoints rooted at authURL
// (e.g. "https://registry.example.com/api/auth") backed by the given store.
func New(authURL string, kv Store, opts ...Option) (*Manager, error) {
	if authURL == "" {
		return nil, ErrMissingAuthURL
	}
	if kv == nil {
		return nil, ErrMissingStore
	}

	m := &Manager{
		authURL:       authURL,
		http:          http.DefaultClient,
		kv:            kv,
		clock:         SystemClock(),
		log:           slog.Default().With(logger.Component("session")),
		refreshMargin: DefaultRefreshMargin,
		staleMargin:   DefaultStaleMargin,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Login exchanges credentials for a token pair, persists it, announces the
// session and arms the refresh timer.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	pair, err := m.postAuth(ctx, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.code == http.StatusBadRequest ||
			se.code == http.StatusUnauthorized || se.code == http.StatusForbidden) {
			return Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return Session{}, fmt.Errorf("login: %w", err)
	}

	sess := m.persist(ctx, pair, false)
	m.log.InfoContext(ctx, "session established",
		logger.UserID(userID(sess.User)),
		logger.ExpiresAt(sess.AccessExpiresAt))
	return sess, nil
}

// Resume re-arms the refresh timer for a session already present in the
// store, typically at process start. It returns ErrNotAuthenticated when the
// store holds no session.
func (m *Manager) Resume(ctx context.Context) (Session, error) {
	sess, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}
	m.scheduleRefresh(sess.AccessExpiresAt)
	return sess, nil
}

// Current reads the session snapshot from the store. It returns
// ErrNotAuthenticated when the access or refresh token is missing.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	accessToken, err := m.kv.Get(ctx, KeyAccessToken)
	if err != nil {
		return Session{}, fmt.Errorf("read access token: %w", err)
	}
	refreshToken, err := m.kv.Get(ctx, KeyRefreshToken)
	if err != nil {
		return Session{}, fmt.Errorf("read refresh token: %w", err)
	}
	expiresAt, err := m.kv.Get(ctx, KeyExpiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("read expiry: %w", err)
	}
	if accessToken == "" || refreshToken == "" || expiresAt == "" {
		return Session{}, ErrNotAuthenticated
	}

	sess := Session{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: parseEpochMillis(expiresAt),
	}
	if v, err := m.kv.Get(ctx, KeyRefreshExpiresAt); err == nil && v != "" {
		sess.RefreshExpiresAt = parseEpochMillis(v)
	}
	sess.User = m.readUser(ctx)
	return sess, nil
}

// Token returns a currently-valid bearer token, refreshing first when the
// access token is stale. This is the pre-flight step every authenticated
// request goes through; a refresh failure here means teardown has already
// run and the caller must not issue its request.
func (m *Manager) Token(ctx context.Context) (string, error) {
	sess, err := m.Current(ctx)
	if err != nil || sess.Stale(m.clock.Now(), m.staleMargin) {
		if err := m.Refresh(ctx); err != nil {
			return "", err
		}
		if sess, err = m.Current(ctx); err != nil {
			return "", err
		}
	}
	return sess.AccessToken, nil
}

// Refresh exchanges the refresh token for a new pair. Concurrent callers
// collapse onto one network round-trip: whoever arrives while an exchange is
// in flight awaits the same shared future and observes the same outcome.
//
// Fatal conditions (no session, refresh token past its expiry, failed
// exchange) tear the session down before the error is returned.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if fut := m.pending; fut != nil {
		m.mu.Unlock()
		return fut.AwaitContext(ctx)
	}
	m.mu.Unlock()

	sess, err := m.Current(ctx)
	if err != nil {
		m.teardown(ctx, true)
		return err
	}
	if sess.RefreshExpired(m.clock.Now()) {
		m.teardown(ctx, true)
		return fmt.Errorf("%w: refresh token expired", ErrSessionExpired)
	}

	m.mu.Lock()
	if fut := m.pending; fut != nil {
		// Lost the race while checking preconditions.
		m.mu.Unlock()
		return fut.AwaitContext(ctx)
	}
	// The exchange is detached from the triggering caller: its outcome is
	// shared, so one caller's cancellation must not fail the others.
	fut := async.Exec(context.WithoutCancel(ctx), sess, func(ctx context.Context, cur Session) error {
		defer func() {
			m.mu.Lock()
			m.pending = nil
			m.mu.Unlock()
		}()
		return m.exchange(ctx, cur)
	})
	m.pending = fut
	m.mu.Unlock()

	return fut.AwaitContext(ctx)
}

// exchange performs the refresh-token grant and persists the result.
func (m *Manager) exchange(ctx context.Context, cur Session) error {
	pair, err := m.postAuth(ctx, "/refresh", map[string]string{
		"refreshToken": cur.RefreshToken,
	})
	if err != nil {
		m.log.ErrorContext(ctx, "token refresh failed", logger.Error(err))
		m.teardown(ctx, true)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	// A logout may have raced the exchange; a stale success must not
	// resurrect the torn-down session.
	if rt, err := m.kv.Get(ctx, KeyRefreshToken); err != nil || rt == "" {
		m.log.DebugContext(ctx, "discarding refresh result after teardown")
		return ErrNotAuthenticated
	}

	sess := m.persist(ctx, pair, true)
	m.log.DebugContext(ctx, "token refreshed", logger.ExpiresAt(sess.AccessExpiresAt))
	return nil
}

// Logout revokes the refresh token server-side on a best-effort basis and
// unconditionally tears down the local session. It is safe to call twice.
func (m *Manager) Logout(ctx context.Context) error {
	if sess, err := m.Current(ctx); err == nil && sess.RefreshToken != "" {
		if err := m.revoke(ctx, sess.RefreshToken); err != nil {
			m.log.WarnContext(ctx, "server-side logout failed", logger.Error(err))
		}
	}
	m.teardown(ctx, true)
	return nil
}

// HandleRemoteLogout clears the local session in reaction to a logout
// broadcast from another window or process. The event is not re-broadcast,
// which keeps sibling instances from ping-ponging.
func (m *Manager) HandleRemoteLogout(ctx context.Context) {
	m.teardown(ctx, false)
}

// persist writes the token pair, caches the user profile, announces the
// change and re-arms the refresh timer. With mergeProfile set, profile
// fields returned by the server overlay the cached record; otherwise the
// response replaces it.
func (m *Manager) persist(ctx context.Context, pair TokenPair, mergeProfile bool) Session {
	now := m.clock.Now()
	sess := Session{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  now.Add(time.Duration(pair.ExpiresIn) * time.Second),
		RefreshExpiresAt: now.Add(time.Duration(pair.RefreshExpiresIn) * time.Second),
	}

	fresh := pair.User
	if fresh == nil {
		fresh = userFromAccessToken(pair.AccessToken)
	}
	if mergeProfile {
		sess.User = mergeUser(m.readUser(ctx), fresh)
	} else {
		sess.User = fresh
	}

	m.setKV(ctx, KeyAccessToken, pair.AccessToken)
	m.setKV(ctx, KeyRefreshToken, pair.RefreshToken)
	m.setKV(ctx, KeyExpiresAt, strconv.FormatInt(sess.AccessExpiresAt.UnixMilli(), 10))
	m.setKV(ctx, KeyRefreshExpiresAt, strconv.FormatInt(sess.RefreshExpiresAt.UnixMilli(), 10))
	if sess.User != nil {
		if data, err := json.Marshal(userEnvelope{User: sess.User}); err == nil {
			m.setKV(ctx, KeyUser, string(data))
		}
	}

	m.publish(ctx, m.local, Event{Type: EventChanged, Authenticated: true, User: sess.User})
	m.scheduleRefresh(sess.AccessExpiresAt)
	return sess
}

// teardown clears all persisted state, cancels the armed timer and signals
// collaborators. Every fatal path funnels through here, so the
// login-required hook fires after cleanup is already done. Idempotent.
func (m *Manager) teardown(ctx context.Context, broadcastRemote bool) {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	for _, key := range sessionKeys {
		if err := m.kv.Remove(ctx, key); err != nil {
			m.log.WarnContext(ctx, "failed to remove session key",
				slog.String("key", key), logger.Error(err))
		}
	}

	m.publish(ctx, m.local, Event{Type: EventChanged, Authenticated: false})
	if broadcastRemote {
		m.publish(ctx, m.remote, Event{Type: EventLogout})
	}
	if m.onLoginRequired != nil {
		m.onLoginRequired()
	}
}

// scheduleRefresh arms the proactive refresh timer, canceling any previous
// one. The timer fires refreshMargin before expiry, clamped to now.
func (m *Manager) scheduleRefresh(expiry time.Time) {
	delay := expiry.Sub(m.clock.Now()) - m.refreshMargin
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = m.clock.AfterFunc(delay, m.refreshDue)
	m.mu.Unlock()
}

// refreshDue runs when the proactive timer fires. Refresh already tears the
// session down on fatal errors, so a failure here only needs surfacing.
func (m *Manager) refreshDue() {
	ctx := context.Background()
	if err := m.Refresh(ctx); err != nil {
		m.log.Error("scheduled refresh failed", logger.Error(err))
	}
}

// postAuth issues a JSON POST to an auth endpoint and decodes the token pair.
// Non-2xx responses yield a *statusError.
func (m *Manager) postAuth(ctx context.Context, path string, payload map[string]string) (TokenPair, error) {
	resp, err := m.postJSON(ctx, path, payload)
	if err != nil {
		return TokenPair{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return TokenPair{}, fmt.Errorf("POST %s: %w", path, &statusError{code: resp.StatusCode})
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return TokenPair{}, fmt.Errorf("decode %s response: %w", path, err)
	}
	return pair, nil
}

// revoke invalidates the refresh token server-side. The response body shape
// is not specified, so only the status matters.
func (m *Manager) revoke(ctx context.Context, refreshToken string) error {
	resp, err := m.postJSON(ctx, "/logout", map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST /logout: %w", &statusError{code: resp.StatusCode})
	}
	return nil
}

func (m *Manager) postJSON(ctx context.Context, path string, payload map[string]string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return resp, nil
}

// statusError carries a non-2xx auth endpoint status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.code)
}

func (m *Manager) publish(ctx context.Context, n Notifier, evt Event) {
	if n == nil {
		return
	}
	if err := n.Broadcast(ctx, broadcast.NewMessage(evt)); err != nil {
		m.log.WarnContext(ctx, "failed to publish session event",
			slog.String("event", string(evt.Type)), logger.Error(err))
	}
}

func (m *Manager) readUser(ctx context.Context) *User {
	raw, err := m.kv.Get(ctx, KeyUser)
	if err != nil || raw == "" {
		return nil
	}
	var env userEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil
	}
	return env.User
}

func (m *Manager) setKV(ctx context.Context, key, value string) {
	if err := m.kv.Set(ctx, key, value); err != nil {
		m.log.ErrorContext(ctx, "failed to persist session key",
			slog.String("key", key), logger.Error(err))
	}
}

func parseEpochMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func userID(u *User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

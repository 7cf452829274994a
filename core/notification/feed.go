package notification

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/clinreg/clinreg-go/core/logger"
	"github.com/clinreg/clinreg-go/core/session"
	"github.com/clinreg/clinreg-go/pkg/broadcast"
)

const defaultBufferSize = 32

// TokenSource supplies the bearer token the socket authenticates with.
// *session.Manager satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Feed maintains the notification socket in lockstep with the session:
// it dials when the session is established and hangs up when it is torn
// down, driven by the session manager's lifecycle events. Message handling
// beyond decoding is the consumer's business.
type Feed struct {
	url    string
	tokens TokenSource
	events broadcast.Broadcaster[session.Event]
	dialer *websocket.Dialer
	log    *slog.Logger
	out    chan Notification

	mu   sync.Mutex
	conn *websocket.Conn
}

// Option is a functional option for configuring the feed.
type Option func(*Feed)

// WithLogger configures structured logging for the feed.
func WithLogger(log *slog.Logger) Option {
	return func(f *Feed) {
		if log != nil {
			f.log = log
		}
	}
}

// WithDialer overrides the websocket dialer, mainly for tests.
func WithDialer(d *websocket.Dialer) Option {
	return func(f *Feed) {
		if d != nil {
			f.dialer = d
		}
	}
}

// NewFeed creates a feed for the socket endpoint at socketURL (ws:// or
// wss://), authenticating via tokens and reacting to session events.
func NewFeed(socketURL string, tokens TokenSource, events broadcast.Broadcaster[session.Event], opts ...Option) (*Feed, error) {
	if socketURL == "" {
		return nil, ErrMissingSocketURL
	}
	if tokens == nil || events == nil {
		return nil, ErrMissingCollaborator
	}

	f := &Feed{
		url:    socketURL,
		tokens: tokens,
		events: events,
		dialer: websocket.DefaultDialer,
		log:    slog.Default().With(logger.Component("notification")),
		out:    make(chan Notification, defaultBufferSize),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Notifications returns the channel decoded messages are delivered on.
// Messages arriving while the buffer is full are dropped.
func (f *Feed) Notifications() <-chan Notification {
	return f.out
}

// Run drives the feed until ctx is canceled. It connects immediately when a
// session already exists, then follows session events: connect on
// establishment, disconnect on teardown.
func (f *Feed) Run(ctx context.Context) error {
	sub := f.events.Subscribe(ctx)
	defer sub.Close()
	defer f.disconnect()

	if _, err := f.tokens.Token(ctx); err == nil {
		f.connect(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Receive(ctx):
			if !ok {
				return nil
			}
			if msg.Data.Type == session.EventChanged && msg.Data.Authenticated {
				f.connect(ctx)
			} else {
				f.disconnect()
			}
		}
	}
}

// connect replaces any existing socket with a freshly authenticated one.
func (f *Feed) connect(ctx context.Context) {
	f.disconnect()

	token, err := f.tokens.Token(ctx)
	if err != nil {
		f.log.WarnContext(ctx, "cannot connect notification socket", logger.Error(err))
		return
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := f.dialer.DialContext(ctx, f.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		f.log.WarnContext(ctx, "notification socket dial failed", logger.Error(err))
		return
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	f.log.InfoContext(ctx, "notification socket connected")
	go f.readLoop(conn)
}

// disconnect closes the current socket, if any. Safe to call repeatedly.
func (f *Feed) disconnect() {
	f.mu.Lock()
	conn := f.conn
	f.conn = nil
	f.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// readLoop pumps messages from one socket until it closes.
func (f *Feed) readLoop(conn *websocket.Conn) {
	for {
		var n Notification
		if err := conn.ReadJSON(&n); err != nil {
			f.mu.Lock()
			current := f.conn == conn
			f.mu.Unlock()
			if current {
				// Unexpected drop, not a deliberate disconnect.
				f.log.Warn("notification socket closed", logger.Error(err))
			}
			conn.Close()
			return
		}

		select {
		case f.out <- n:
		default:
			// Consumer is not keeping up; dropping beats blocking the socket.
		}
	}
}

package clinreg

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clinreg/clinreg-go/core/apiclient"
	"github.com/clinreg/clinreg-go/core/config"
	"github.com/clinreg/clinreg-go/core/notification"
	"github.com/clinreg/clinreg-go/core/session"
	"github.com/clinreg/clinreg-go/pkg/broadcast"
)

var (
	// ErrMissingAuthURL is returned when constructing a client without auth endpoints.
	ErrMissingAuthURL = errors.New("auth URL is required")
	// ErrMissingAPIURL is returned when constructing a client without an API base URL.
	ErrMissingAPIURL = errors.New("API URL is required")
)

// Config provides environment-based configuration for the assembled client.
type Config struct {
	AuthURL   string `env:"CLINREG_AUTH_URL,required"`
	APIURL    string `env:"CLINREG_API_URL,required"`
	SocketURL string `env:"CLINREG_SOCKET_URL"`

	APITimeout   time.Duration `env:"CLINREG_API_TIMEOUT" envDefault:"30s"`
	APIRetryMax  int           `env:"CLINREG_API_RETRY_MAX" envDefault:"3"`
	RetryWaitMin time.Duration `env:"CLINREG_API_RETRY_WAIT_MIN" envDefault:"1s"`
	RetryWaitMax time.Duration `env:"CLINREG_API_RETRY_WAIT_MAX" envDefault:"10s"`
}

// LoadConfig populates a Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Client bundles the session manager, the authenticated API client and the
// notification feed with their event plumbing already connected.
type Client struct {
	// Session owns login, refresh and logout.
	Session *session.Manager
	// API issues authenticated requests against the registry.
	API *apiclient.Client
	// Feed follows the session over the notification socket. Nil when no
	// socket URL is configured.
	Feed *notification.Feed
	// Events carries session lifecycle events for in-process consumers.
	Events broadcast.Broadcaster[session.Event]

	remote broadcast.Broadcaster[session.Event]
	log    *slog.Logger
}

// Option is a functional option for assembling the client.
type Option func(*builder)

type builder struct {
	store       session.Store
	remote      broadcast.Broadcaster[session.Event]
	log         *slog.Logger
	sessionOpts []session.Option
	apiOpts     []apiclient.Option
	feedOpts    []notification.Option
}

// WithStore substitutes the session store. Defaults to an in-memory store;
// desktop shells pass the encrypted file store, multi-instance deployments
// the Redis one.
func WithStore(kv session.Store) Option {
	return func(b *builder) {
		if kv != nil {
			b.store = kv
		}
	}
}

// WithRemoteBroadcaster connects the client to a cross-process event channel.
// Local logouts are announced on it and logout announcements from sibling
// instances tear down the local session, once Run is started.
func WithRemoteBroadcaster(bc broadcast.Broadcaster[session.Event]) Option {
	return func(b *builder) {
		b.remote = bc
	}
}

// WithLogger configures structured logging for every component.
func WithLogger(log *slog.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithSessionOptions forwards extra options to the session manager.
func WithSessionOptions(opts ...session.Option) Option {
	return func(b *builder) {
		b.sessionOpts = append(b.sessionOpts, opts...)
	}
}

// WithAPIOptions forwards extra options to the API client.
func WithAPIOptions(opts ...apiclient.Option) Option {
	return func(b *builder) {
		b.apiOpts = append(b.apiOpts, opts...)
	}
}

// WithFeedOptions forwards extra options to the notification feed.
func WithFeedOptions(opts ...notification.Option) Option {
	return func(b *builder) {
		b.feedOpts = append(b.feedOpts, opts...)
	}
}

// New assembles a fully wired client from the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.AuthURL == "" {
		return nil, ErrMissingAuthURL
	}
	if cfg.APIURL == "" {
		return nil, ErrMissingAPIURL
	}

	b := &builder{
		store: session.NewMemoryStore(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	events := broadcast.NewMemoryBroadcaster[session.Event](16)

	sessionOpts := append([]session.Option{
		session.WithNotifier(events),
		session.WithLogger(b.log),
	}, b.sessionOpts...)
	if b.remote != nil {
		sessionOpts = append(sessionOpts, session.WithRemoteBroadcaster(b.remote))
	}

	mgr, err := session.New(cfg.AuthURL, b.store, sessionOpts...)
	if err != nil {
		return nil, err
	}

	apiOpts := append([]apiclient.Option{apiclient.WithLogger(b.log)}, b.apiOpts...)
	api, err := apiclient.New(apiclient.Config{
		BaseURL:      cfg.APIURL,
		Timeout:      cfg.APITimeout,
		RetryMax:     cfg.APIRetryMax,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
	}, mgr, apiOpts...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		Session: mgr,
		API:     api,
		Events:  events,
		remote:  b.remote,
		log:     b.log,
	}

	if cfg.SocketURL != "" {
		feedOpts := append([]notification.Option{notification.WithLogger(b.log)}, b.feedOpts...)
		c.Feed, err = notification.NewFeed(cfg.SocketURL, mgr, events, feedOpts...)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Run drives the client's background work until ctx is canceled: the
// notification feed, when configured, and the remote logout listener, when a
// remote broadcaster is attached. Callers that use neither do not need Run.
func (c *Client) Run(ctx context.Context) error {
	if c.Feed == nil && c.remote == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	done := make(chan error, 2)
	running := 0

	if c.Feed != nil {
		running++
		go func() { done <- c.Feed.Run(ctx) }()
	}
	if c.remote != nil {
		running++
		go func() { done <- c.listenRemote(ctx) }()
	}

	var first error
	for range running {
		if err := <-done; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// listenRemote tears the local session down when a sibling instance
// announces a logout. The teardown is not re-broadcast.
func (c *Client) listenRemote(ctx context.Context) error {
	sub := c.remote.Subscribe(ctx)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Receive(ctx):
			if !ok {
				return nil
			}
			if msg.Data.Type == session.EventLogout {
				c.log.InfoContext(ctx, "remote logout received, clearing local session")
				c.Session.HandleRemoteLogout(ctx)
			}
		}
	}
}

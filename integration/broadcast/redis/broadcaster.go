package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/clinreg/clinreg-go/core/logger"
	"github.com/clinreg/clinreg-go/pkg/broadcast"
)

const defaultBufferSize = 32

// Broadcaster is a broadcast.Broadcaster backed by Redis pub/sub, used to
// fan messages out across processes, such as propagating a logout to every
// open window of the desktop shell. Messages are JSON-encoded on the wire.
type Broadcaster[T any] struct {
	client  *redis.Client
	channel string
	log     *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures a Broadcaster.
type Option[T any] func(*Broadcaster[T])

// WithLogger configures structured logging for the broadcaster.
func WithLogger[T any](log *slog.Logger) Option[T] {
	return func(b *Broadcaster[T]) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBroadcaster creates a broadcaster publishing on the given channel over
// an existing Redis client. The client's lifecycle belongs to the caller.
func NewBroadcaster[T any](client *redis.Client, channel string, opts ...Option[T]) *Broadcaster[T] {
	b := &Broadcaster[T]{
		client:  client,
		channel: channel,
		log:     slog.Default().With(logger.Component("broadcast.redis")),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Broadcast implements broadcast.Broadcaster.
func (b *Broadcaster[T]) Broadcast(ctx context.Context, msg broadcast.Message[T]) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return broadcast.ErrBroadcasterClosed
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

// Subscribe implements broadcast.Broadcaster. The subscription ends when ctx
// is canceled or Close is called on the returned Subscriber.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) broadcast.Subscriber[T] {
	ps := b.client.Subscribe(ctx, b.channel)
	sub := &subscriber[T]{
		ps: ps,
		ch: make(chan broadcast.Message[T], defaultBufferSize),
	}

	go func() {
		defer close(sub.ch)
		for raw := range ps.Channel() {
			var msg broadcast.Message[T]
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				b.log.Warn("dropping malformed broadcast payload", logger.Error(err))
				continue
			}
			select {
			case sub.ch <- msg:
			default:
				// Slow consumer: drop rather than stall the pub/sub reader.
			}
		}
	}()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub
}

// Close implements broadcast.Broadcaster. It stops accepting broadcasts;
// the Redis client itself is left to its owner.
func (b *Broadcaster[T]) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

type subscriber[T any] struct {
	ps   *redis.PubSub
	ch   chan broadcast.Message[T]
	once sync.Once
}

// Receive implements broadcast.Subscriber.
func (s *subscriber[T]) Receive(ctx context.Context) <-chan broadcast.Message[T] {
	return s.ch
}

// Close implements broadcast.Subscriber.
func (s *subscriber[T]) Close() error {
	var err error
	s.once.Do(func() {
		err = s.ps.Close()
	})
	return err
}

var _ broadcast.Broadcaster[any] = (*Broadcaster[any])(nil)

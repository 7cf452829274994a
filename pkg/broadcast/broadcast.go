package broadcast

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message wraps a broadcast payload with delivery metadata.
type Message[T any] struct {
	ID        uuid.UUID
	Data      T
	Timestamp time.Time
}

// NewMessage creates a Message with a generated ID and the current timestamp.
func NewMessage[T any](data T) Message[T] {
	return Message[T]{
		ID:        uuid.New(),
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Broadcaster sends messages to all active subscribers.
// Implementations must be safe for concurrent use.
type Broadcaster[T any] interface {
	// Broadcast delivers the message to every subscriber. Delivery is
	// best-effort: subscribers with full buffers miss the message rather
	// than blocking the caller.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Subscribe registers a new subscriber. The subscription is removed
	// automatically when ctx is canceled or Close is called on the
	// returned Subscriber.
	Subscribe(ctx context.Context) Subscriber[T]

	// Close shuts down the broadcaster and closes all subscriber channels.
	Close() error
}

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on. The channel
	// is closed when the subscription ends.
	Receive(ctx context.Context) <-chan Message[T]

	// Close unsubscribes and closes the receive channel.
	Close() error
}

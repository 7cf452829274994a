package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryBroadcaster is an in-memory Broadcaster implementation for
// single-process applications. Messages are fanned out to per-subscriber
// buffered channels; a subscriber whose buffer is full misses the message
// instead of blocking the broadcast.
type MemoryBroadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*memorySubscriber[T]
	bufferSize  int
	closed      bool
}

// NewMemoryBroadcaster creates a broadcaster with the given per-subscriber
// buffer size. A non-positive size falls back to 1.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &MemoryBroadcaster[T]{
		subscribers: make(map[uuid.UUID]*memorySubscriber[T]),
		bufferSize:  bufferSize,
	}
}

// Broadcast implements Broadcaster.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBroadcasterClosed
	}

	for _, sub := range b.subscribers {
		select {
		case sub.ch <- msg:
		default:
			// Slow consumer: drop rather than block the broadcaster.
		}
	}
	return nil
}

// Subscribe implements Broadcaster.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &memorySubscriber[T]{
		id:     uuid.New(),
		ch:     make(chan Message[T], b.bufferSize),
		parent: b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		sub.closed = true
		return sub
	}
	b.subscribers[sub.id] = sub
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub
}

// Close implements Broadcaster.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for id, sub := range b.subscribers {
		sub.markClosed()
		close(sub.ch)
		delete(b.subscribers, id)
	}
	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if sub, ok := b.subscribers[id]; ok {
		sub.markClosed()
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

type memorySubscriber[T any] struct {
	id     uuid.UUID
	ch     chan Message[T]
	parent *MemoryBroadcaster[T]

	mu     sync.Mutex
	closed bool
}

// Receive implements Subscriber.
func (s *memorySubscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

// Close implements Subscriber.
func (s *memorySubscriber[T]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.parent.unsubscribe(s.id)
	return nil
}

func (s *memorySubscriber[T]) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

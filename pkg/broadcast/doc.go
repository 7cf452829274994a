// Package broadcast provides a generic pub/sub messaging system with pluggable backends.
//
// The package defines two interfaces, Broadcaster and Subscriber, and ships an
// in-memory implementation suitable for single-process applications. Alternate
// backends (e.g. Redis pub/sub for cross-process fan-out) implement the same
// interfaces.
//
// Delivery is non-blocking: a subscriber whose buffer is full misses messages
// rather than slowing down the broadcaster or other subscribers.
//
// Basic usage:
//
//	broadcaster := broadcast.NewMemoryBroadcaster[string](100)
//	defer broadcaster.Close()
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	subscriber := broadcaster.Subscribe(ctx)
//	defer subscriber.Close()
//
//	go func() {
//		for msg := range subscriber.Receive(ctx) {
//			fmt.Printf("received: %s\n", msg.Data)
//		}
//	}()
//
//	broadcaster.Broadcast(ctx, broadcast.NewMessage("hello"))
//
// Subscriptions are removed automatically when their context is canceled, so a
// subscriber tied to a request or component lifetime needs no explicit cleanup.
package broadcast

// Package async implements a small Future pattern for error-only asynchronous
// operations.
//
// ExecFuture represents one in-flight computation that any number of waiters
// can attach to; every waiter observes the same outcome. This makes the type a
// natural building block for single-flight coordination: start the operation
// once, hand the same future to everyone who needs its result.
//
// Basic usage:
//
//	future := async.Exec(ctx, userID, func(ctx context.Context, id int) error {
//		return warmCache(ctx, id)
//	})
//
//	// Do other work...
//
//	if err := future.Await(); err != nil {
//		log.Fatal(err)
//	}
//
// Waiting with a caller-scoped context:
//
//	// Abandons the wait on cancellation; the computation itself keeps
//	// running and other waiters still receive its result.
//	err := future.AwaitContext(ctx)
//
// AwaitWithTimeout behaves the same way with a fixed duration and returns
// ErrTimeout when it elapses first.
//
// If the context passed to Exec is already canceled, the function is never
// invoked and the future resolves with the context error.
//
// All operations are safe for concurrent use; completion is signaled by
// closing an internal channel, so repeated Await calls are cheap.
package async

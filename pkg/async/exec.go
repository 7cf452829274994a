package async

import (
	"context"
	"time"
)

// ExecFuture represents the result of an asynchronous computation that only
// returns an error. The zero value is not usable; create futures with Exec.
//
// A future may be handed to any number of waiters: all of them observe the
// same outcome once the underlying function completes.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Await blocks until the asynchronous function completes and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitContext waits for completion or context cancellation, whichever comes
// first. Cancellation abandons the wait only; the underlying function keeps
// running and its result remains available to other waiters.
func (f *ExecFuture) AwaitContext(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitWithTimeout waits for completion with a timeout.
// If the timeout elapses before completion, ErrTimeout is returned.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// IsComplete reports whether the asynchronous function has finished, without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec runs fn asynchronously with the given parameter and returns a future
// for its result. If ctx is already canceled the function is not invoked and
// the future resolves with the context error.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx, param)
	}()

	return f
}

// ExecAll waits for all futures to complete and returns the first error encountered.
func ExecAll(futures ...*ExecFuture) error {
	for _, future := range futures {
		if err := future.Await(); err != nil {
			return err
		}
	}
	return nil
}

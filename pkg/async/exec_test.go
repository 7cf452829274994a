package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinreg/clinreg-go/pkg/async"
)

func TestExec(t *testing.T) {
	t.Parallel()

	t.Run("successful execution", func(t *testing.T) {
		t.Parallel()

		var got atomic.Int32
		fut := async.Exec(context.Background(), int32(42), func(ctx context.Context, v int32) error {
			got.Store(v)
			return nil
		})

		require.NoError(t, fut.Await())
		assert.Equal(t, int32(42), got.Load())
		assert.True(t, fut.IsComplete())
	})

	t.Run("propagates function error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("exchange failed")
		fut := async.Exec(context.Background(), "x", func(ctx context.Context, _ string) error {
			return wantErr
		})

		assert.ErrorIs(t, fut.Await(), wantErr)
	})

	t.Run("canceled context skips execution", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ran atomic.Bool
		fut := async.Exec(ctx, "x", func(ctx context.Context, _ string) error {
			ran.Store(true)
			return nil
		})

		assert.ErrorIs(t, fut.Await(), context.Canceled)
		assert.False(t, ran.Load())
	})

	t.Run("all waiters observe the same outcome", func(t *testing.T) {
		t.Parallel()

		var runs atomic.Int32
		wantErr := errors.New("once")
		fut := async.Exec(context.Background(), "x", func(ctx context.Context, _ string) error {
			runs.Add(1)
			time.Sleep(20 * time.Millisecond)
			return wantErr
		})

		errs := make(chan error, 5)
		for range 5 {
			go func() { errs <- fut.Await() }()
		}
		for range 5 {
			assert.ErrorIs(t, <-errs, wantErr)
		}
		assert.Equal(t, int32(1), runs.Load())
	})
}

func TestExecFuture_AwaitContext(t *testing.T) {
	t.Parallel()

	t.Run("returns result on completion", func(t *testing.T) {
		t.Parallel()

		fut := async.Exec(context.Background(), "x", func(ctx context.Context, _ string) error {
			return nil
		})
		assert.NoError(t, fut.AwaitContext(context.Background()))
	})

	t.Run("abandons the wait on cancellation", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		fut := async.Exec(context.Background(), "x", func(ctx context.Context, _ string) error {
			<-release
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, fut.AwaitContext(ctx), context.Canceled)

		// The function keeps running and its result stays available.
		close(release)
		assert.NoError(t, fut.Await())
	})
}

func TestExecFuture_AwaitWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("completes within timeout", func(t *testing.T) {
		t.Parallel()

		fut := async.Exec(context.Background(), "x", func(ctx context.Context, _ string) error {
			return nil
		})
		assert.NoError(t, fut.AwaitWithTimeout(time.Second))
	})

	t.Run("times out", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		fut := async.Exec(context.Background(), "x", func(ctx context.Context, _ string) error {
			<-release
			return nil
		})
		assert.ErrorIs(t, fut.AwaitWithTimeout(10*time.Millisecond), async.ErrTimeout)
	})
}

func TestExecFuture_IsComplete(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fut := async.Exec(context.Background(), "x", func(ctx context.Context, _ string) error {
		<-release
		return nil
	})

	assert.False(t, fut.IsComplete())
	close(release)
	require.NoError(t, fut.Await())
	assert.True(t, fut.IsComplete())
}

func TestExecAll(t *testing.T) {
	t.Parallel()

	t.Run("all succeed", func(t *testing.T) {
		t.Parallel()

		noop := func(ctx context.Context, _ string) error { return nil }
		assert.NoError(t, async.ExecAll(
			async.Exec(context.Background(), "a", noop),
			async.Exec(context.Background(), "b", noop),
		))
	})

	t.Run("returns first error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		assert.ErrorIs(t, async.ExecAll(
			async.Exec(context.Background(), "a", func(ctx context.Context, _ string) error { return nil }),
			async.Exec(context.Background(), "b", func(ctx context.Context, _ string) error { return wantErr }),
		), wantErr)
	})

	t.Run("no futures", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, async.ExecAll())
	})
}

package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinreg/clinreg-go/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("wraps error under error key", func(t *testing.T) {
		t.Parallel()

		err := errors.New("refresh failed")
		attr := logger.Error(err)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, err, attr.Value.Any())
	})

	t.Run("nil error yields empty attr", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, slog.Attr{}, logger.Error(nil))
	})
}

func TestUserID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.String("user_id", "u1"), logger.UserID("u1"))
	assert.Equal(t, slog.Attr{}, logger.UserID(""))
}

func TestSimpleAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.String("component", "session"), logger.Component("session"))
	assert.Equal(t, slog.Duration("duration", time.Second), logger.Duration(time.Second))
	assert.Equal(t, slog.Int("status", 401), logger.Status(401))
	assert.Equal(t, slog.String("method", "POST"), logger.Method("POST"))
	assert.Equal(t, slog.String("path", "/auth/refresh"), logger.Path("/auth/refresh"))

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, slog.Time("expires_at", at), logger.ExpiresAt(at))
}

func TestElapsed(t *testing.T) {
	t.Parallel()

	attr := logger.Elapsed(time.Now().Add(-time.Minute))
	assert.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), time.Minute)
}

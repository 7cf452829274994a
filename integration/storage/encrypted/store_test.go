package encrypted_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinreg/clinreg-go/core/session"
	"github.com/clinreg/clinreg-go/integration/storage/encrypted"
)

func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestNewStore_Validation(t *testing.T) {
	t.Parallel()

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := encrypted.NewStore("", testKey(1))
		assert.ErrorIs(t, err, encrypted.ErrMissingPath)
	})

	t.Run("wrong key size", func(t *testing.T) {
		t.Parallel()

		_, err := encrypted.NewStore(filepath.Join(t.TempDir(), "s.bin"), []byte("short"))
		assert.ErrorIs(t, err, encrypted.ErrInvalidKeySize)
	})
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.bin")

	kv, err := encrypted.NewStore(path, testKey(1))
	require.NoError(t, err)

	// Missing file reads as an empty store.
	got, err := kv.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, kv.Set(ctx, session.KeyAccessToken, "tok-1"))
	require.NoError(t, kv.Set(ctx, session.KeyRefreshToken, "ref-1"))

	got, err = kv.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, kv.Remove(ctx, session.KeyAccessToken))
	got, err = kv.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Removing an absent key is a no-op.
	require.NoError(t, kv.Remove(ctx, "absent"))
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.bin")
	key := testKey(2)

	first, err := encrypted.NewStore(path, key)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, session.KeyUser, `{"user":{"id":"u1"}}`))

	second, err := encrypted.NewStore(path, key)
	require.NoError(t, err)

	got, err := second.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"user":{"id":"u1"}}`, got)
}

func TestStore_TokensNeverStoredInPlaintext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.bin")

	kv, err := encrypted.NewStore(path, testKey(3))
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, session.KeyAccessToken, "very-secret-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "very-secret-token")
}

func TestStore_WrongKeyFailsAsCorrupt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.bin")

	kv, err := encrypted.NewStore(path, testKey(4))
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, session.KeyAccessToken, "tok"))

	other, err := encrypted.NewStore(path, testKey(5))
	require.NoError(t, err)

	_, err = other.Get(ctx, session.KeyAccessToken)
	assert.ErrorIs(t, err, encrypted.ErrCorruptStore)
}

func TestStore_TruncatedFileFailsAsCorrupt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.bin")
	require.NoError(t, os.WriteFile(path, []byte("too short"), 0o600))

	kv, err := encrypted.NewStore(path, testKey(6))
	require.NoError(t, err)

	_, err = kv.Get(ctx, session.KeyAccessToken)
	assert.ErrorIs(t, err, encrypted.ErrCorruptStore)
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	kv, err := encrypted.NewStore(filepath.Join(t.TempDir(), "s.bin"), testKey(7))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = kv.Get(ctx, session.KeyAccessToken)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, kv.Set(ctx, "k", "v"), context.Canceled)
	assert.ErrorIs(t, kv.Remove(ctx, "k"), context.Canceled)
}

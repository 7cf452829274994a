package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinreg/clinreg-go/core/config"
)

// Each test uses its own config type: parsed values are cached per type, so
// sharing one across tests would leak state between them.

func TestLoad(t *testing.T) {
	t.Run("parses env tags with defaults", func(t *testing.T) {
		type testCfg struct {
			AuthURL string        `env:"TEST_LOAD_AUTH_URL"`
			Timeout time.Duration `env:"TEST_LOAD_TIMEOUT" envDefault:"30s"`
		}
		t.Setenv("TEST_LOAD_AUTH_URL", "http://auth.clinic.test")

		var cfg testCfg
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "http://auth.clinic.test", cfg.AuthURL)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("missing required variable", func(t *testing.T) {
		type requiredCfg struct {
			Secret string `env:"TEST_LOAD_REQUIRED_SECRET,required"`
		}

		var cfg requiredCfg
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TEST_LOAD_REQUIRED_SECRET")
	})

	t.Run("nil config", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[struct{}](nil), config.ErrNilConfig)
	})

	t.Run("caches per type", func(t *testing.T) {
		type cachedCfg struct {
			Value string `env:"TEST_LOAD_CACHED_VALUE"`
		}
		t.Setenv("TEST_LOAD_CACHED_VALUE", "first")

		var first cachedCfg
		require.NoError(t, config.Load(&first))
		require.Equal(t, "first", first.Value)

		// Later loads of the same type see the cached value, not the env.
		t.Setenv("TEST_LOAD_CACHED_VALUE", "second")
		var second cachedCfg
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns on success", func(t *testing.T) {
		type mustCfg struct {
			Value string `env:"TEST_MUSTLOAD_VALUE" envDefault:"ok"`
		}

		var cfg mustCfg
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, "ok", cfg.Value)
	})

	t.Run("panics on failure", func(t *testing.T) {
		type mustFailCfg struct {
			Secret string `env:"TEST_MUSTLOAD_MISSING,required"`
		}

		var cfg mustFailCfg
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}

package apiclient

import (
	"log/slog"
	"time"
)

// Config provides environment-based configuration for the API client.
type Config struct {
	BaseURL      string        `env:"CLINREG_API_URL,required"`
	Timeout      time.Duration `env:"CLINREG_API_TIMEOUT" envDefault:"30s"`
	RetryMax     int           `env:"CLINREG_API_RETRY_MAX" envDefault:"3"`
	RetryWaitMin time.Duration `env:"CLINREG_API_RETRY_WAIT_MIN" envDefault:"1s"`
	RetryWaitMax time.Duration `env:"CLINREG_API_RETRY_WAIT_MAX" envDefault:"10s"`
}

// DefaultConfig returns a Config with defaults suitable for local development.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		Timeout:      30 * time.Second,
		RetryMax:     3,
		RetryWaitMin: time.Second,
		RetryWaitMax: 10 * time.Second,
	}
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithLogger configures structured logging for the client.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

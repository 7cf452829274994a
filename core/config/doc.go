// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads a .env file on first use and parses
// environment variables into struct fields via the caarlos0/env library.
//
// Basic usage:
//
//	import "github.com/clinreg/clinreg-go/core/config"
//
//	type APIConfig struct {
//		BaseURL string        `env:"CLINREG_API_URL,required"`
//		Timeout time.Duration `env:"CLINREG_API_TIMEOUT" envDefault:"30s"`
//	}
//
//	func main() {
//		var cfg APIConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var a APIConfig
//	config.Load(&a) // Loads from environment
//
//	var b APIConfig
//	config.Load(&b) // Returns cached value, a == b
//
// Different types are cached independently, so splitting configuration into
// per-subsystem structs costs nothing beyond the first parse of each type.
package config

// Package logger provides structured logging helpers built on Go's standard
// slog package.
//
// The package contains a small set of attribute constructors for the fields
// this SDK logs repeatedly: errors, components, HTTP metadata, timing and
// token expiry. Helpers follow the empty-Attr pattern: passing a nil error or
// empty identifier yields an attribute slog silently drops, so call sites
// never need nil checks.
//
// Usage:
//
//	log := slog.Default().With(logger.Component("session"))
//	log.Info("token refreshed", logger.ExpiresAt(expiry))
//	log.Error("refresh failed", logger.Error(err))
package logger

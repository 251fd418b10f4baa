// Package middleware wraps the ingester's HTTP endpoints (metrics and health)
// with request logging and panic recovery.
package middleware

import (
	"log/slog"
	"net/http"
)

// Option wraps a handler.
type Option func(http.Handler) http.Handler

// Apply wraps handler with options. The first option is the outermost.
func Apply(handler http.Handler, options ...Option) http.Handler {
	for i := len(options) - 1; i >= 0; i-- {
		handler = options[i](handler)
	}

	return handler
}

// WithRecovery adds Recovery.
func WithRecovery(logger *slog.Logger) Option {
	return Recovery(logger)
}

// WithRequestLogger adds RequestLogger.
func WithRequestLogger(logger *slog.Logger) Option {
	return RequestLogger(logger)
}

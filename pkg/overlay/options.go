// Option functions for configuring the overlay API.

package overlay

import (
	"log/slog"
	"time"

	"github.com/ethanCharter/floatlog/pkg/metrics"
)

// Option configures an API.
type Option func(*API)

// WithHost sets the bind address. Default is 127.0.0.1.
func WithHost(host string) Option {
	return func(a *API) {
		if host != "" {
			a.host = host
		}
	}
}

// WithPort sets the listen port. Default is 4690; 0 lets the OS pick a
// free port, Addr reports the one chosen.
func WithPort(port int) Option {
	return func(a *API) {
		if port >= 0 {
			a.port = port
		}
	}
}

// WithAPIKey enables API key authentication with the given key.
// Clients authenticate via the X-API-Key header, an Authorization
// bearer token, or the api_key query parameter; /health stays open.
func WithAPIKey(key string) Option {
	return func(a *API) {
		a.apiKey = key
	}
}

// WithLogger sets the operational logger. Default is a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetrics sets the registry served at /metrics. The API registers
// its metric set on that registry, so instrumentation and the endpoint
// stay on the same registry. Default is the package-level registry from
// metrics.Init(). A custom registry can back at most one API instance.
func WithMetrics(r *metrics.Registry) Option {
	return func(a *API) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithCORS enables CORS handling for the given origins. No origins
// allows any origin.
func WithCORS(origins ...string) Option {
	return func(a *API) {
		a.cors = &corsConfig{origins: origins}
	}
}

// WithKeepalive sets the SSE keepalive interval. Default is 15s.
func WithKeepalive(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.keepalive = d
		}
	}
}

// WithMaxBodySize caps the ingest request body size in bytes.
// Default is 1MB.
func WithMaxBodySize(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// WithVersion sets the version string returned by the status endpoint.
// If not set, defaults to "dev".
func WithVersion(version string) Option {
	return func(a *API) {
		if version != "" {
			a.version = version
		}
	}
}

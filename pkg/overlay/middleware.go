package overlay

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ethanCharter/floatlog/pkg/httputil"
)

// RequestIDHeader carries the request correlation ID.
const RequestIDHeader = "X-Request-Id"

// APIKeyHeader is the HTTP header for API key authentication.
const APIKeyHeader = "X-API-Key"

// withMiddleware wraps the handler with the full chain.
// Order (outermost to innermost): panic recovery -> security headers ->
// CORS -> request ID -> access log -> API key auth -> handler.
func (a *API) withMiddleware(handler http.Handler) http.Handler {
	wrapped := a.authMiddleware(handler)
	wrapped = a.accessLogMiddleware(wrapped)
	wrapped = requestIDMiddleware(wrapped)
	if a.cors != nil {
		wrapped = a.cors.middleware(wrapped)
	}
	wrapped = securityHeadersMiddleware(wrapped)
	return a.recoveryMiddleware(wrapped)
}

// recoveryMiddleware converts handler panics into 500 responses.
func (a *API) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log.Error("handler panic",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
				)
				httputil.WriteInternalError(w, "internal_error", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to all responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware assigns every request a correlation ID, honoring
// one supplied by the client.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// accessLogMiddleware logs each request and records request metrics.
func (a *API) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusCapturingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		route := routeLabel(r.URL.Path)
		a.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.statusCode,
			"duration", elapsed,
			"request_id", w.Header().Get(RequestIDHeader),
		)

		if vec, err := a.metrics.HTTPRequestsTotal.WithLabels(r.Method, route, strconv.Itoa(sw.statusCode)); err == nil {
			_ = vec.Inc()
		}
		if vec, err := a.metrics.HTTPRequestDuration.WithLabels(route); err == nil {
			vec.Observe(elapsed.Seconds())
		}
	})
}

// knownRoutes bounds the route label so unmatched paths cannot blow up
// series cardinality.
var knownRoutes = map[string]bool{
	"/health":      true,
	"/status":      true,
	"/logs":        true,
	"/logs/export": true,
	"/logs/stream": true,
	"/logs/ws":     true,
	"/metrics":     true,
}

func routeLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// authMiddleware enforces API key authentication when a key is
// configured. The key may arrive via the X-API-Key header, an
// Authorization bearer token, or the api_key query parameter (the
// fallback EventSource and browser WebSocket clients need, since they
// cannot set headers). /health is always exempt.
func (a *API) authMiddleware(next http.Handler) http.Handler {
	if a.apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if key == "" {
			key = r.URL.Query().Get("api_key")
		}

		if key == "" {
			httputil.WriteUnauthorized(w, "missing_api_key",
				"API key required. Provide via X-API-Key header, Authorization: Bearer <key>, or api_key query parameter.")
			return
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) != 1 {
			httputil.WriteUnauthorized(w, "invalid_api_key", "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// corsConfig holds the allowed origins for cross-origin requests.
// An empty origins list allows any origin.
type corsConfig struct {
	origins []string
}

// allowOriginValue returns the Access-Control-Allow-Origin value for the
// given request origin, or "" when the origin is not allowed.
func (c *corsConfig) allowOriginValue(origin string) string {
	if len(c.origins) == 0 {
		return "*"
	}
	for _, allowed := range c.origins {
		if allowed == "*" {
			return "*"
		}
		if allowed == origin {
			return origin
		}
	}
	return ""
}

// middleware adds CORS headers and answers preflight requests.
func (c *corsConfig) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// The response depends on the Origin header.
		w.Header().Add("Vary", "Origin")

		allowOrigin := c.allowOriginValue(origin)
		if allowOrigin == "" {
			// Origin not allowed: the browser blocks the response, and
			// preflights are refused outright.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusCapturingResponseWriter wraps http.ResponseWriter to capture the
// status code for logging and metrics.
type statusCapturingResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

// WriteHeader captures the status code before writing the header.
func (w *statusCapturingResponseWriter) WriteHeader(code int) {
	if !w.headerWritten {
		w.statusCode = code
		w.headerWritten = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Write captures status code if not already written (implicit 200 OK).
func (w *statusCapturingResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.statusCode = http.StatusOK
		w.headerWritten = true
	}
	return w.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer so streaming handlers keep
// working behind the wrapper.
func (w *statusCapturingResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController support.
func (w *statusCapturingResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Route registration for the overlay API.

package overlay

import (
	"net/http"
)

// registerRoutes sets up all API routes.
func (a *API) registerRoutes(mux *http.ServeMux) {
	// Health, status, and metrics
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /status", a.handleStatus)
	mux.Handle("GET /metrics", a.registry.Handler())

	// Log entries
	mux.HandleFunc("GET /logs", a.handleListLogs)
	mux.HandleFunc("POST /logs", a.handleAddLog)
	mux.HandleFunc("DELETE /logs", a.handleClearLogs)
	mux.HandleFunc("GET /logs/export", a.handleExportLogs)

	// Live feeds
	mux.HandleFunc("GET /logs/stream", a.handleStreamLogs)
	mux.HandleFunc("GET /logs/ws", a.handleWSLogs)
}

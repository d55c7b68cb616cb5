package overlay

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ethanCharter/floatlog/pkg/httputil"
	"github.com/ethanCharter/floatlog/pkg/logstore"
	"github.com/ethanCharter/floatlog/pkg/sse"
)

// LogsEnvelope is the payload of one live feed event: the full sequence
// as published by the store, newest first.
type LogsEnvelope struct {
	Logs  []logstore.Entry `json:"logs"`
	Count int              `json:"count"`
}

// ConnectedEnvelope greets a new live feed connection.
type ConnectedEnvelope struct {
	Connection string `json:"connection"`
}

// handleStreamLogs handles GET /logs/stream, an SSE feed. The client
// receives a connected greeting, the current sequence, then the new
// full sequence after every store mutation, with keepalive comments in
// between. Slow clients skip intermediate sequences.
func (a *API) handleStreamLogs(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteInternalError(w, "sse_error", "streaming not supported")
		return
	}

	// The manager cancels this context on Deregister and CloseAll, so
	// server shutdown unblocks the stream instead of waiting it out.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := sse.NewConn(r.RemoteAddr, cancel)
	if err := a.sseConns.Register(conn); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "too_many_streams", err.Error())
		return
	}
	defer a.sseConns.Deregister(conn.ID)

	if vec, err := a.metrics.StreamConnectionsCurrent.WithLabels("sse"); err == nil {
		vec.Inc()
		defer vec.Dec()
	}

	w.Header().Set("Content-Type", sse.ContentTypeEventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	enc := sse.NewEncoder()

	write := func(s string) bool {
		if _, err := io.WriteString(w, s); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	writeEvent := func(event *sse.Event) bool {
		formatted, err := enc.Format(event)
		if err != nil {
			a.log.Warn("sse encode failed", "error", err, "connection", conn.ID)
			return true // skip this event, keep the stream alive
		}
		if !write(formatted) {
			return false
		}
		conn.RecordEvent()
		return true
	}

	if !writeEvent(&sse.Event{
		Type:  "connected",
		Retry: sse.DefaultRetryMs,
		Data:  ConnectedEnvelope{Connection: conn.ID},
	}) {
		return
	}

	f := newFeed()
	unsubscribe := a.store.Subscribe(f.offer)
	defer unsubscribe()

	// Current sequence first, so the client starts from a complete view.
	current := a.store.Entries()
	if !writeEvent(&sse.Event{Type: "logs", Data: LogsEnvelope{Logs: current, Count: len(current)}}) {
		return
	}

	ticker := time.NewTicker(a.keepalive)
	defer ticker.Stop()

	a.log.Debug("sse stream opened", "connection", conn.ID, "remote", conn.RemoteAddr)
	for {
		select {
		case <-ctx.Done():
			a.log.Debug("sse stream closed", "connection", conn.ID, "events", conn.EventsSent())
			return
		case entries := <-f.next():
			if !writeEvent(&sse.Event{Type: "logs", Data: LogsEnvelope{Logs: entries, Count: len(entries)}}) {
				return
			}
		case <-ticker.C:
			if !write(enc.FormatKeepalive()) {
				return
			}
		}
	}
}

package overlay

import (
	"context"
	"encoding/json"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/ethanCharter/floatlog/pkg/logstore"
	"github.com/ethanCharter/floatlog/pkg/sse"
)

// handleWSLogs handles GET /logs/ws, the WebSocket live feed. Each text
// frame carries the same envelope as the SSE feed: the current sequence
// on connect, then the new full sequence after every mutation. Inbound
// frames are read and discarded; the read loop exists to notice the
// client going away.
func (a *API) handleWSLogs(w http.ResponseWriter, r *http.Request) {
	wsConn, err := ws.Accept(w, r, &ws.AcceptOptions{
		// Cross-origin dashboards are expected consumers; auth is
		// handled by the API key middleware, not the Origin header.
		InsecureSkipVerify: true,
	})
	if err != nil {
		a.log.Debug("websocket accept failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := sse.NewConn(r.RemoteAddr, cancel)
	if err := a.wsConns.Register(conn); err != nil {
		_ = wsConn.Close(ws.StatusTryAgainLater, "too many streams")
		return
	}
	defer a.wsConns.Deregister(conn.ID)

	if vec, err := a.metrics.StreamConnectionsCurrent.WithLabels("websocket"); err == nil {
		vec.Inc()
		defer vec.Dec()
	}

	defer func() {
		_ = wsConn.Close(ws.StatusNormalClosure, "")
	}()

	go func() {
		for {
			if _, _, err := wsConn.Read(ctx); err != nil {
				cancel()
				return
			}
		}
	}()

	writeEnvelope := func(entries []logstore.Entry) bool {
		data, err := json.Marshal(LogsEnvelope{Logs: entries, Count: len(entries)})
		if err != nil {
			return false
		}
		if err := wsConn.Write(ctx, ws.MessageText, data); err != nil {
			return false
		}
		conn.RecordEvent()
		return true
	}

	f := newFeed()
	unsubscribe := a.store.Subscribe(f.offer)
	defer unsubscribe()

	if !writeEnvelope(a.store.Entries()) {
		return
	}

	a.log.Debug("websocket stream opened", "connection", conn.ID, "remote", conn.RemoteAddr)
	for {
		select {
		case <-ctx.Done():
			a.log.Debug("websocket stream closed", "connection", conn.ID, "events", conn.EventsSent())
			return
		case entries := <-f.next():
			if !writeEnvelope(entries) {
				return
			}
		}
	}
}

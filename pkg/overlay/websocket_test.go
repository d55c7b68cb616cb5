package overlay

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanCharter/floatlog/pkg/logstore"
)

func dialWS(t *testing.T, srvURL string) *ws.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(srvURL, "http://", "ws://", 1) + "/logs/ws"
	conn, _, err := ws.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(ws.StatusNormalClosure, "") })
	return conn
}

func readEnvelope(t *testing.T, conn *ws.Conn) LogsEnvelope {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, ws.MessageText, typ)

	var envelope LogsEnvelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	return envelope
}

func TestWebSocketFeed(t *testing.T) {
	store := logstore.New()
	store.Add(logstore.Entry{RequestType: "GET", Path: "/seed"})
	api := New(store)

	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	conn := dialWS(t, srv.URL)

	// Current sequence arrives on connect.
	envelope := readEnvelope(t, conn)
	require.Equal(t, 1, envelope.Count)
	assert.Equal(t, "/seed", envelope.Logs[0].Path)

	// Each mutation delivers the new full sequence.
	store.Add(logstore.Entry{RequestType: "POST", Path: "/live"})
	envelope = readEnvelope(t, conn)
	require.Equal(t, 2, envelope.Count)
	assert.Equal(t, "/live", envelope.Logs[0].Path)

	store.Clear()
	envelope = readEnvelope(t, conn)
	assert.Equal(t, 0, envelope.Count)
}

func TestWebSocketUnsubscribesOnClose(t *testing.T) {
	store := logstore.New()
	api := New(store)

	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	conn := dialWS(t, srv.URL)

	require.Eventually(t, func() bool {
		return store.Subscribers() == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, api.wsConns.Count())

	_ = conn.Close(ws.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		return store.Subscribers() == 0 && api.wsConns.Count() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWebSocketMultipleConsumers(t *testing.T) {
	store := logstore.New()
	api := New(store)

	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	c1 := dialWS(t, srv.URL)
	c2 := dialWS(t, srv.URL)

	// Both receive the (empty) current sequence.
	assert.Equal(t, 0, readEnvelope(t, c1).Count)
	assert.Equal(t, 0, readEnvelope(t, c2).Count)

	store.Add(logstore.Entry{RequestType: "GET", Path: "/x"})

	assert.Equal(t, 1, readEnvelope(t, c1).Count)
	assert.Equal(t, 1, readEnvelope(t, c2).Count)
}

package overlay

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanCharter/floatlog/pkg/logstore"
)

func TestStartStop(t *testing.T) {
	store := logstore.New()
	api := New(store, WithPort(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, api.Start(ctx))

	resp, err := http.Get("http://" + api.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Start guards against double invocation.
	assert.Error(t, api.Start(ctx))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, api.Stop(stopCtx))

	// The server stops accepting connections, and Stop is idempotent.
	_, err = http.Get("http://" + api.Addr() + "/health")
	assert.Error(t, err)
	assert.NoError(t, api.Stop(stopCtx))
}

func TestStartStopsOnContextCancel(t *testing.T) {
	store := logstore.New()
	api := New(store, WithPort(0))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, api.Start(ctx))
	addr := api.Addr()

	cancel()

	require.Eventually(t, func() bool {
		_, err := http.Get("http://" + addr + "/health")
		return err != nil
	}, 5*time.Second, 20*time.Millisecond)
}

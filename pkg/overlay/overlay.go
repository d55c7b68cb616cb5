package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethanCharter/floatlog/pkg/logging"
	"github.com/ethanCharter/floatlog/pkg/logstore"
	"github.com/ethanCharter/floatlog/pkg/metrics"
	"github.com/ethanCharter/floatlog/pkg/sse"
)

// Default server settings.
const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 4690
	DefaultMaxBodySize = 1 << 20 // 1MB ingest cap
	DefaultMaxStreams  = 256     // per feed kind
)

// API serves the log store over HTTP.
type API struct {
	store *logstore.Store

	host      string
	port      int
	apiKey    string
	cors      *corsConfig
	keepalive time.Duration
	maxBody   int64
	version   string
	log       *slog.Logger

	registry *metrics.Registry
	metrics  *metrics.Set

	sseConns *sse.Manager
	wsConns  *sse.Manager

	httpServer *http.Server
	listener   net.Listener
	startTime  time.Time

	mu          sync.Mutex
	started     bool
	unsubscribe func()
}

// New creates an overlay API around store. The server does not listen
// until Start is called; Handler can be used without Start for embedding
// and tests.
func New(store *logstore.Store, opts ...Option) *API {
	a := &API{
		store:     store,
		host:      DefaultHost,
		port:      DefaultPort,
		keepalive: sse.DefaultKeepalive,
		maxBody:   DefaultMaxBodySize,
		version:   "dev",
		log:       logging.Nop(),
		sseConns:  sse.NewManager(DefaultMaxStreams),
		wsConns:   sse.NewManager(DefaultMaxStreams),
	}

	for _, opt := range opts {
		opt(a)
	}

	// Instrumentation must land on the registry that /metrics serves: a
	// custom registry gets its own metric set, otherwise both fall back
	// to the process-wide defaults.
	if a.registry == nil || a.registry == metrics.DefaultRegistry() {
		a.registry = metrics.Init()
		a.metrics = metrics.DefaultSet()
	} else {
		a.metrics = metrics.NewSet(a.registry)
	}

	mux := http.NewServeMux()
	a.registerRoutes(mux)

	a.httpServer = &http.Server{
		Handler:           a.withMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a
}

// Handler returns the fully assembled HTTP handler, middleware included.
func (a *API) Handler() http.Handler {
	return a.httpServer.Handler
}

// Addr returns the address the server is listening on, or the configured
// host:port before Start.
func (a *API) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return net.JoinHostPort(a.host, strconv.Itoa(a.port))
}

// Uptime returns the seconds since Start.
func (a *API) Uptime() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.startTime.IsZero() {
		return 0
	}
	return int(time.Since(a.startTime).Seconds())
}

// Start binds the listener and serves in the background. The server
// shuts down when ctx is cancelled or Stop is called.
func (a *API) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return errors.New("overlay: already started")
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(a.host, strconv.Itoa(a.port)))
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("overlay: listen on %s:%d: %w", a.host, a.port, err)
	}
	a.listener = ln
	a.startTime = time.Now()
	a.started = true
	a.unsubscribe = a.store.Subscribe(a.observePublish)
	a.mu.Unlock()

	a.syncStoreGauges()

	go func() {
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("overlay server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Stop(shutdownCtx)
	}()

	a.log.Info("overlay listening", "addr", ln.Addr().String())
	return nil
}

// Stop gracefully shuts the server down: live feeds are closed, then
// in-flight requests drain until ctx expires. Stop is safe to call more
// than once.
func (a *API) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = false
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	a.sseConns.CloseAll()
	a.wsConns.CloseAll()

	a.log.Info("overlay stopping")
	return a.httpServer.Shutdown(ctx)
}

// observePublish keeps the store gauges current. It runs on the
// mutating goroutine, so it only touches counters.
func (a *API) observePublish(entries []logstore.Entry) {
	_ = a.metrics.PublishesTotal.Inc()
	_ = a.metrics.EntriesCurrent.Set(float64(len(entries)))
	_ = a.metrics.SubscribersCurrent.Set(float64(a.store.Subscribers()))
}

// syncStoreGauges seeds the store gauges from current state.
func (a *API) syncStoreGauges() {
	_ = a.metrics.EntriesCurrent.Set(float64(a.store.Len()))
	_ = a.metrics.SubscribersCurrent.Set(float64(a.store.Subscribers()))
}

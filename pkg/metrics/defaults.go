package metrics

import (
	"sync"
	"time"
)

// Default metrics for the overlay server.
// These are initialized by calling Init().
//
// # Label Conventions
//
// All label values are lowercase except HTTP methods:
//
// ## method label values
//   - Uppercase HTTP methods: GET, POST, DELETE, etc.
//
// ## route label values
//   - The registered route pattern, not the raw URL path: /logs,
//     /logs/stream, /health, etc.
//
// ## status label values
//   - Numeric HTTP status codes (200, 400, 401, 500, ...)
//
// ## kind label values (for StreamConnectionsCurrent)
//   - sse, websocket
var (
	// HTTPRequestsTotal counts requests handled by the overlay server.
	// Labels: method, route, status
	HTTPRequestsTotal *Counter

	// HTTPRequestDuration tracks overlay request durations in seconds.
	// Labels: route
	HTTPRequestDuration *Histogram

	// EntriesTotal counts log entries ever added to the store.
	EntriesTotal *Counter

	// EntriesCurrent is a gauge of entries currently held by the store.
	EntriesCurrent *Gauge

	// StoreClearsTotal counts store clear operations.
	StoreClearsTotal *Counter

	// PublishesTotal counts sequence publications to subscribers.
	PublishesTotal *Counter

	// SubscribersCurrent is a gauge of active store subscribers.
	SubscribersCurrent *Gauge

	// StreamConnectionsCurrent tracks active streaming connections.
	// Labels: kind (sse, websocket)
	StreamConnectionsCurrent *Gauge

	// UptimeSeconds is a gauge of the server uptime in seconds.
	UptimeSeconds *Gauge

	// RuntimeCollectorInstance is the Go runtime metrics collector.
	RuntimeCollectorInstance *RuntimeCollector

	// runtimeCollectorStop stops the runtime collector goroutine.
	runtimeCollectorStop func()

	// defaultRegistry is the global metrics registry.
	defaultRegistry *Registry

	// defaultSet holds the overlay metrics registered on defaultRegistry.
	defaultSet *Set

	// initOnce ensures Init() is only called once.
	initOnce sync.Once
)

// Set bundles the overlay server metrics registered on a single
// Registry, so instrumentation and the served /metrics endpoint always
// agree on where samples live.
type Set struct {
	HTTPRequestsTotal        *Counter
	HTTPRequestDuration      *Histogram
	EntriesTotal             *Counter
	EntriesCurrent           *Gauge
	StoreClearsTotal         *Counter
	PublishesTotal           *Counter
	SubscribersCurrent       *Gauge
	StreamConnectionsCurrent *Gauge
}

// NewSet registers the overlay metrics on r and returns their handles.
// Each registry can host at most one set; registering twice on the same
// registry panics on the duplicate names.
func NewSet(r *Registry) *Set {
	return &Set{
		HTTPRequestsTotal: r.NewCounter(
			"floatlog_http_requests_total",
			"Total number of overlay API requests",
			"method", "route", "status",
		),
		HTTPRequestDuration: r.NewHistogram(
			"floatlog_http_request_duration_seconds",
			"Duration of overlay API requests in seconds",
			DefaultBuckets,
			"route",
		),
		EntriesTotal: r.NewCounter(
			"floatlog_entries_total",
			"Total number of log entries added to the store",
		),
		EntriesCurrent: r.NewGauge(
			"floatlog_entries_current",
			"Number of log entries currently in the store",
		),
		StoreClearsTotal: r.NewCounter(
			"floatlog_store_clears_total",
			"Total number of store clear operations",
		),
		PublishesTotal: r.NewCounter(
			"floatlog_publishes_total",
			"Total number of sequence publications to subscribers",
		),
		SubscribersCurrent: r.NewGauge(
			"floatlog_subscribers_current",
			"Number of active store subscribers",
		),
		StreamConnectionsCurrent: r.NewGauge(
			"floatlog_stream_connections_current",
			"Number of active streaming connections",
			"kind",
		),
	}
}

// Init initializes the default metrics and returns the registry.
// This function is idempotent and safe to call multiple times.
func Init() *Registry {
	initOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultSet = NewSet(defaultRegistry)

		HTTPRequestsTotal = defaultSet.HTTPRequestsTotal
		HTTPRequestDuration = defaultSet.HTTPRequestDuration
		EntriesTotal = defaultSet.EntriesTotal
		EntriesCurrent = defaultSet.EntriesCurrent
		StoreClearsTotal = defaultSet.StoreClearsTotal
		PublishesTotal = defaultSet.PublishesTotal
		SubscribersCurrent = defaultSet.SubscribersCurrent
		StreamConnectionsCurrent = defaultSet.StreamConnectionsCurrent

		// Uptime metric, updated by the runtime collector. Registered
		// outside the Set so custom registries do not carry a gauge
		// nothing feeds.
		UptimeSeconds = defaultRegistry.NewGauge(
			"floatlog_uptime_seconds",
			"Server uptime in seconds",
		)

		// Initialize Go runtime metrics collector (passing UptimeSeconds for it to update)
		RuntimeCollectorInstance = NewRuntimeCollector(defaultRegistry, UptimeSeconds)
		// Start collecting runtime metrics every 10 seconds
		runtimeCollectorStop = RuntimeCollectorInstance.StartCollector(10 * time.Second)
	})

	return defaultRegistry
}

// DefaultRegistry returns the default metrics registry.
// Returns nil if Init() has not been called.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// DefaultSet returns the overlay metrics registered on the default
// registry. Returns nil if Init() has not been called.
func DefaultSet() *Set {
	return defaultSet
}

// Reset resets all default metrics. Useful for testing.
// This also resets the initOnce, allowing Init() to be called again.
func Reset() {
	if runtimeCollectorStop != nil {
		runtimeCollectorStop()
		runtimeCollectorStop = nil
	}

	initOnce = sync.Once{}
	defaultRegistry = nil
	defaultSet = nil
	HTTPRequestsTotal = nil
	HTTPRequestDuration = nil
	EntriesTotal = nil
	EntriesCurrent = nil
	StoreClearsTotal = nil
	PublishesTotal = nil
	SubscribersCurrent = nil
	StreamConnectionsCurrent = nil
	UptimeSeconds = nil
	RuntimeCollectorInstance = nil
}

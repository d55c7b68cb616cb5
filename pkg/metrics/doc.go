// Package metrics provides Prometheus-compatible metrics collection for the
// overlay server.
//
// This package implements the Prometheus text exposition format (text/plain;
// version=0.0.4) without any external dependencies, using only the standard
// library.
//
// Supported metric types:
//   - Counter: monotonically increasing value (e.g., request counts)
//   - Gauge: value that can go up or down (e.g., active connections)
//   - Histogram: distribution of values with configurable buckets (e.g., latencies)
//
// All metrics are thread-safe and can be updated from multiple goroutines.
//
// # Default Metrics
//
// The package provides pre-defined metrics for tracking log store and overlay
// server activity:
//
//   - floatlog_http_requests_total: Counter for overlay API requests (labels: method, route, status)
//   - floatlog_http_request_duration_seconds: Histogram for request latency (labels: route)
//   - floatlog_entries_total: Counter for entries added to the store
//   - floatlog_entries_current: Gauge for entries currently held
//   - floatlog_store_clears_total: Counter for clear operations
//   - floatlog_publishes_total: Counter for sequence publications
//   - floatlog_subscribers_current: Gauge for active subscribers
//   - floatlog_stream_connections_current: Gauge for streaming connections (labels: kind)
//
// # Usage
//
//	// Initialize the default metrics registry
//	registry := metrics.Init()
//
//	// Record an HTTP request
//	vec, _ := metrics.HTTPRequestsTotal.WithLabels("GET", "/logs", "200")
//	vec.Inc()
//
//	// Record a streaming connection
//	conns, _ := metrics.StreamConnectionsCurrent.WithLabels("sse")
//	conns.Inc()
//
//	// Register the /metrics endpoint
//	http.Handle("/metrics", registry.Handler())
//
// Custom metrics can also be created:
//
//	registry := metrics.NewRegistry()
//	counter := registry.NewCounter("my_counter", "Description of counter", "label1", "label2")
//
// To host the floatlog metrics on a private registry instead of the
// process-wide defaults, register a Set:
//
//	registry := metrics.NewRegistry()
//	set := metrics.NewSet(registry)
//	_ = set.EntriesTotal.Inc()
package metrics

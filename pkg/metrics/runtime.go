package metrics

import (
	"runtime"
	"runtime/pprof"
	"time"
)

// RuntimeCollector collects Go runtime metrics.
type RuntimeCollector struct {
	goroutines  *Gauge
	threads     *Gauge
	heapAlloc   *Gauge
	heapInuse   *Gauge
	heapObjects *Gauge
	gcPause     *Gauge
	numGC       *Gauge
	goInfo      *Gauge

	// Uptime gauge (passed in from defaults)
	uptime *Gauge

	// Start time for uptime calculation
	startTime time.Time
}

// NewRuntimeCollector creates a new runtime metrics collector and registers metrics.
// The uptimeGauge parameter should be the UptimeSeconds gauge from defaults.
func NewRuntimeCollector(r *Registry, uptimeGauge *Gauge) *RuntimeCollector {
	rc := &RuntimeCollector{
		startTime: time.Now(),
		uptime:    uptimeGauge,

		goroutines: r.NewGauge(
			"go_goroutines",
			"Number of goroutines that currently exist",
		),
		threads: r.NewGauge(
			"go_threads",
			"Number of OS threads created",
		),
		heapAlloc: r.NewGauge(
			"go_memstats_heap_alloc_bytes",
			"Number of heap bytes allocated and still in use",
		),
		heapInuse: r.NewGauge(
			"go_memstats_heap_inuse_bytes",
			"Number of heap bytes that are in use",
		),
		heapObjects: r.NewGauge(
			"go_memstats_heap_objects",
			"Number of allocated heap objects",
		),
		gcPause: r.NewGauge(
			"go_gc_duration_seconds",
			"Total GC pause duration in seconds",
		),
		numGC: r.NewGauge(
			"go_gc_cycles_total",
			"Total number of completed GC cycles",
		),
		goInfo: r.NewGauge(
			"go_info",
			"Information about the Go environment",
			"version",
		),
	}

	// Set static info
	if vec, err := rc.goInfo.WithLabels(runtime.Version()); err == nil {
		vec.Set(1)
	}

	return rc
}

// Collect updates all runtime metrics with current values.
// Call this periodically (e.g., every few seconds) to keep metrics current.
func (rc *RuntimeCollector) Collect() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	_ = rc.uptime.Set(time.Since(rc.startTime).Seconds())

	_ = rc.goroutines.Set(float64(runtime.NumGoroutine()))

	// OS thread count from pprof threadcreate profile
	if numThreads, ok := getNumThreads(); ok {
		_ = rc.threads.Set(float64(numThreads))
	}

	_ = rc.heapAlloc.Set(float64(mem.HeapAlloc))
	_ = rc.heapInuse.Set(float64(mem.HeapInuse))
	_ = rc.heapObjects.Set(float64(mem.HeapObjects))

	// PauseTotalNs is the authoritative cumulative total; the PauseNs
	// circular buffer wraps after 256 entries.
	_ = rc.gcPause.Set(float64(mem.PauseTotalNs) / 1e9)
	_ = rc.numGC.Set(float64(mem.NumGC))
}

// getNumThreads returns the number of OS threads via the pprof
// "threadcreate" profile, which tracks threads created by the runtime.
func getNumThreads() (int, bool) {
	p := pprof.Lookup("threadcreate")
	if p == nil {
		return 0, false
	}
	return p.Count(), true
}

// StartCollector starts a goroutine that periodically collects runtime metrics.
// Returns a stop function to cancel the collection.
func (rc *RuntimeCollector) StartCollector(interval time.Duration) func() {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Collect immediately
		rc.Collect()

		for {
			select {
			case <-ticker.C:
				rc.Collect()
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

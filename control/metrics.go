// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector. Counters and gauges live in one thread-safe
// map keyed by dotted names.

package control

import (
	"sync"
	"time"
)

// Metric keys recorded by the dispatcher.
const (
	MetricResolutions        = "dispatch.resolutions"
	MetricResolutionFailures = "dispatch.resolution_failures"
	MetricRuntime            = "dispatch.runtime"
	// MetricOpPrefix prefixes per-operation call counters.
	MetricOpPrefix = "dispatch.op."
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Inc adds one to the int64 counter at key, creating it if needed.
// A non-counter value under key is replaced.
func (mr *MetricsRegistry) Inc(key string) int64 {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	n, _ := mr.metrics[key].(int64)
	n++
	mr.metrics[key] = n
	mr.updated = time.Now()
	return n
}

// Counter reads the counter at key; zero when absent.
func (mr *MetricsRegistry) Counter(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	n, _ := mr.metrics[key].(int64)
	return n
}

// Updated reports the time of the last write.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, keep them in memory for
// tests, or discard them.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(route, method string, status int, duration time.Duration)

	// Resource management metrics. resource is "user" or "product".
	IncResourceCreated(resource string)
	IncResourceUpdated(resource string)
	IncResourceDeleted(resource string)
	IncCacheHit(resource string)
	IncCacheMiss(resource string)

	// Fan-out metrics
	ObservePeerRequest(status string, duration time.Duration) // status: "ok" or "error"
	ObserveAggregation(outcome string, duration time.Duration) // outcome: "ok", "peer_error", "store_error"
}

package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {}

// IncResourceCreated is a no-op.
func (n *NoopRecorder) IncResourceCreated(resource string) {}

// IncResourceUpdated is a no-op.
func (n *NoopRecorder) IncResourceUpdated(resource string) {}

// IncResourceDeleted is a no-op.
func (n *NoopRecorder) IncResourceDeleted(resource string) {}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit(resource string) {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss(resource string) {}

// ObservePeerRequest is a no-op.
func (n *NoopRecorder) ObservePeerRequest(status string, duration time.Duration) {}

// ObserveAggregation is a no-op.
func (n *NoopRecorder) ObserveAggregation(outcome string, duration time.Duration) {}

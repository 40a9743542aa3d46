package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests       uint64
	ResourcesCreated   map[string]uint64
	ResourcesUpdated   map[string]uint64
	ResourcesDeleted   map[string]uint64
	CacheHits          map[string]uint64
	CacheMisses        map[string]uint64
	PeerRequestsOK     uint64
	PeerRequestsFailed uint64
	Aggregations       map[string]uint64
	AggregationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	httpRequests       uint64
	peerRequestsOK     uint64
	peerRequestsFailed uint64
	aggregationTotalNs int64

	mu           sync.Mutex
	created      map[string]uint64
	updated      map[string]uint64
	deleted      map[string]uint64
	cacheHits    map[string]uint64
	cacheMisses  map[string]uint64
	aggregations map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		created:      make(map[string]uint64),
		updated:      make(map[string]uint64),
		deleted:      make(map[string]uint64),
		cacheHits:    make(map[string]uint64),
		cacheMisses:  make(map[string]uint64),
		aggregations: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		HTTPRequests:       atomic.LoadUint64(&m.httpRequests),
		ResourcesCreated:   copyCounts(m.created),
		ResourcesUpdated:   copyCounts(m.updated),
		ResourcesDeleted:   copyCounts(m.deleted),
		CacheHits:          copyCounts(m.cacheHits),
		CacheMisses:        copyCounts(m.cacheMisses),
		PeerRequestsOK:     atomic.LoadUint64(&m.peerRequestsOK),
		PeerRequestsFailed: atomic.LoadUint64(&m.peerRequestsFailed),
		Aggregations:       copyCounts(m.aggregations),
		AggregationTotalNs: atomic.LoadInt64(&m.aggregationTotalNs),
	}
}

// ObserveHTTPRequest increments the HTTP request counter.
func (m *InMemoryRecorder) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
}

// IncResourceCreated increments the created counter for resource.
func (m *InMemoryRecorder) IncResourceCreated(resource string) {
	m.inc(m.created, resource)
}

// IncResourceUpdated increments the updated counter for resource.
func (m *InMemoryRecorder) IncResourceUpdated(resource string) {
	m.inc(m.updated, resource)
}

// IncResourceDeleted increments the deleted counter for resource.
func (m *InMemoryRecorder) IncResourceDeleted(resource string) {
	m.inc(m.deleted, resource)
}

// IncCacheHit increments the cache hit counter for resource.
func (m *InMemoryRecorder) IncCacheHit(resource string) {
	m.inc(m.cacheHits, resource)
}

// IncCacheMiss increments the cache miss counter for resource.
func (m *InMemoryRecorder) IncCacheMiss(resource string) {
	m.inc(m.cacheMisses, resource)
}

// ObservePeerRequest records a peer call outcome.
func (m *InMemoryRecorder) ObservePeerRequest(status string, duration time.Duration) {
	if status == "ok" {
		atomic.AddUint64(&m.peerRequestsOK, 1)
		return
	}
	atomic.AddUint64(&m.peerRequestsFailed, 1)
}

// ObserveAggregation records an aggregation outcome and its duration.
func (m *InMemoryRecorder) ObserveAggregation(outcome string, duration time.Duration) {
	m.inc(m.aggregations, outcome)
	atomic.AddInt64(&m.aggregationTotalNs, duration.Nanoseconds())
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, key string) {
	m.mu.Lock()
	counts[key]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder exports metrics through a Prometheus registry.
//
// Metrics:
//   - microshop_http_requests_total{route,method,status}
//   - microshop_http_request_duration_seconds{route,method}
//   - microshop_resources_created_total{resource} (and updated/deleted)
//   - microshop_cache_requests_total{resource,result}
//   - microshop_peer_request_duration_seconds{status}
//   - microshop_aggregation_duration_seconds{outcome}
type PrometheusRecorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	created      *prometheus.CounterVec
	updated      *prometheus.CounterVec
	deleted      *prometheus.CounterVec
	cache        *prometheus.CounterVec
	peer         *prometheus.HistogramVec
	aggregation  *prometheus.HistogramVec
}

// NewPrometheus creates a recorder backed by a fresh registry.
// service is attached to every series as a constant label.
func NewPrometheus(service string) *PrometheusRecorder {
	constLabels := prometheus.Labels{"service": service}
	reg := prometheus.NewRegistry()

	p := &PrometheusRecorder{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microshop_http_requests_total", Help: "HTTP requests by route, method and status.", ConstLabels: constLabels,
		}, []string{"route", "method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "microshop_http_request_duration_seconds", Help: "HTTP request latency.", ConstLabels: constLabels, Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microshop_resources_created_total", Help: "Resources created.", ConstLabels: constLabels,
		}, []string{"resource"}),
		updated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microshop_resources_updated_total", Help: "Resources updated.", ConstLabels: constLabels,
		}, []string{"resource"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microshop_resources_deleted_total", Help: "Resources deleted.", ConstLabels: constLabels,
		}, []string{"resource"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microshop_cache_requests_total", Help: "Entity cache lookups by result.", ConstLabels: constLabels,
		}, []string{"resource", "result"}),
		peer: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "microshop_peer_request_duration_seconds", Help: "Outbound peer call latency.", ConstLabels: constLabels, Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		aggregation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "microshop_aggregation_duration_seconds", Help: "Fan-out aggregation latency by outcome.", ConstLabels: constLabels, Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.httpRequests, p.httpLatency,
		p.created, p.updated, p.deleted,
		p.cache, p.peer, p.aggregation,
	)

	return p
}

// Handler returns the exposition handler for this recorder's registry.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request.
func (p *PrometheusRecorder) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// IncResourceCreated increments the created counter.
func (p *PrometheusRecorder) IncResourceCreated(resource string) {
	p.created.WithLabelValues(resource).Inc()
}

// IncResourceUpdated increments the updated counter.
func (p *PrometheusRecorder) IncResourceUpdated(resource string) {
	p.updated.WithLabelValues(resource).Inc()
}

// IncResourceDeleted increments the deleted counter.
func (p *PrometheusRecorder) IncResourceDeleted(resource string) {
	p.deleted.WithLabelValues(resource).Inc()
}

// IncCacheHit increments the cache hit counter.
func (p *PrometheusRecorder) IncCacheHit(resource string) {
	p.cache.WithLabelValues(resource, "hit").Inc()
}

// IncCacheMiss increments the cache miss counter.
func (p *PrometheusRecorder) IncCacheMiss(resource string) {
	p.cache.WithLabelValues(resource, "miss").Inc()
}

// ObservePeerRequest records peer call latency.
func (p *PrometheusRecorder) ObservePeerRequest(status string, duration time.Duration) {
	p.peer.WithLabelValues(status).Observe(duration.Seconds())
}

// ObserveAggregation records fan-out latency.
func (p *PrometheusRecorder) ObserveAggregation(outcome string, duration time.Duration) {
	p.aggregation.WithLabelValues(outcome).Observe(duration.Seconds())
}

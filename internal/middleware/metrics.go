package middleware

import (
	"net/http"
	"time"

	"github.com/microshop/microshop/internal/metrics"
)

// Metrics records request count and latency per chi route pattern.
// Patterns are used instead of raw paths to keep label cardinality bounded.
func Metrics(recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			recorder.ObserveHTTPRequest(routePattern(r), r.Method, wrapped.status, time.Since(start))
		})
	}
}

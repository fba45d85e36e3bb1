package platform

import (
	"sync"

	"kpterm/internal/content"
	"kpterm/internal/runtime"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kpterm",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed, labeled by method and route.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kpterm",
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of request durations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	metricsOnce sync.Once
)

// InitMetrics registers HTTP, dispatcher and content collectors with the
// default registry. Safe to call more than once.
func InitMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPDuration,
			runtime.CommandsTotal,
			runtime.DispatchSeconds,
			content.FetchTotal,
		)
	})
}

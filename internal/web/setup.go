package web

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	registerHTTPOnce    sync.Once
)

// registerHTTPMetrics sets up the per-route HTTP metrics once per process.
func registerHTTPMetrics() {
	registerHTTPOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests served, by route, method and status code.",
			},
			[]string{"handler", "method", "code"},
		)
		httpRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests, by route and method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		)
		prometheus.MustRegister(httpRequestsTotal, httpRequestDuration)
	})
}

// instrument wraps h with the request counter and latency histogram under the route name.
func instrument(name string, h http.HandlerFunc) http.Handler {
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(
		httpRequestDuration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(httpRequestsTotal.MustCurryWith(labels), h),
	)
}

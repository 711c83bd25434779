package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Directory client metrics
var (
	DirectoryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_requests_total",
			Help: "Total number of requests sent to the show directory, by endpoint and outcome.",
		},
		[]string{"endpoint", "status"},
	)

	DirectoryRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "directory_request_duration_seconds",
			Help:    "Latency of show directory requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// Interaction metrics
var (
	InteractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_total",
			Help: "Total number of UI events handled, by kind and outcome.",
		},
		[]string{"kind", "status"},
	)

	StaleResponsesDiscardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_responses_discarded_total",
			Help: "Directory responses dropped because a newer event superseded them.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		DirectoryRequestsTotal,
		DirectoryRequestDuration,
		InteractionsTotal,
		StaleResponsesDiscardedTotal,
	)
}

func prometheusGatherer() prometheus.Gatherer {
	return prometheus.DefaultGatherer
}

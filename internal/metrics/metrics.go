// Package metrics holds the Prometheus instrumentation for the ride workflow,
// the document store and the HTTP API. Collectors register with the default
// registry at package init and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rideshare_rides_posted_total",
			Help: "Ride records persisted, by role",
		},
		[]string{"role"},
	)

	PostFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rideshare_post_failures_total",
			Help: "Rejected or failed ride postings, by error kind",
		},
		[]string{"kind"},
	)

	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rideshare_searches_total",
			Help: "Match searches, by searched role and outcome",
		},
		[]string{"role", "outcome"},
	)

	SearchResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rideshare_search_result_size",
			Help:    "Number of records returned by a match search",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rideshare_booking_transitions_total",
			Help: "Ride status transitions applied by the booking coordinator",
		},
		[]string{"role", "to"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rideshare_store_operation_duration_seconds",
			Help:    "Latency of document store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rideshare_store_operation_errors_total",
			Help: "Document store operations that returned an error (not found excluded)",
		},
		[]string{"operation", "collection"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rideshare_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rideshare_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rideshare_events_published_total",
			Help: "Ride lifecycle events handed to the publisher, by type and outcome",
		},
		[]string{"type", "outcome"},
	)
)

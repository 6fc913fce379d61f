// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eazymove_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eazymove_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	OrderEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eazymove_orders_total",
			Help: "Order and driver lifecycle events by type",
		},
		[]string{"event"},
	)
)

func RecordOrderEvent(event string) {
	OrderEvents.WithLabelValues(event).Inc()
}

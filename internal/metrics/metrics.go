// Package metrics holds the Prometheus collectors of the dispatch service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Claim outcomes.
const (
	ClaimSuccess      = "success"
	ClaimNotFound     = "not_found"
	ClaimAlreadyTaken = "already_taken"
	ClaimError        = "error"
)

var (
	// HTTPRequestsTotal counts handled requests by route, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_http_requests_total",
			Help: "Total number of http requests handled by the service.",
		},
		[]string{"path", "method", "code"},
	)

	// OrderClaimsTotal counts claim attempts by outcome.
	OrderClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_order_claims_total",
			Help: "Total number of order claim attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// OrdersCreatedTotal counts orders persisted.
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_orders_created_total",
			Help: "Total number of orders created.",
		},
	)

	// DistanceLookupsTotal counts distance service calls by outcome.
	DistanceLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_distance_lookups_total",
			Help: "Total number of distance service lookups.",
		},
		[]string{"outcome"},
	)

	// DistanceLookupDuration observes distance service latency.
	DistanceLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_distance_lookup_duration_seconds",
			Help:    "Latency of distance service lookups.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// UnassignedOrders is the backlog sampled by the backlog job.
	UnassignedOrders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_unassigned_orders",
			Help: "Number of orders waiting for a worker.",
		},
	)
)

// DistanceObserver records distance lookups into DistanceLookupsTotal and DistanceLookupDuration.
type DistanceObserver struct{}

func (DistanceObserver) ObserveDistanceLookup(outcome string, elapsed time.Duration) {
	DistanceLookupsTotal.WithLabelValues(outcome).Inc()
	DistanceLookupDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

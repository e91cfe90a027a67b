package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"dispatch/internal/metrics"
)

func TestDistanceObserver(t *testing.T) {
	before := testutil.ToFloat64(metrics.DistanceLookupsTotal.WithLabelValues("failure"))

	metrics.DistanceObserver{}.ObserveDistanceLookup("failure", 20*time.Millisecond)

	after := testutil.ToFloat64(metrics.DistanceLookupsTotal.WithLabelValues("failure"))
	assert.InDelta(t, 1, after-before, 0.0001)
}

func TestUnassignedOrdersGauge(t *testing.T) {
	metrics.UnassignedOrders.Set(7)
	assert.InDelta(t, 7, testutil.ToFloat64(metrics.UnassignedOrders), 0.0001)
}

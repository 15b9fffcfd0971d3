package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGatewayMetricsCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)

	m.IncSuccess("cart.add_item")
	m.IncSuccess("cart.add_item")
	m.IncFailure("cart.clear", "DEPENDENCY_ERROR")
	m.ObserveDuration("cart.add_item", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.success.WithLabelValues("cart.add_item")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("cart.clear", "DEPENDENCY_ERROR")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestGatewayMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *GatewayMetrics
	m.IncSuccess("noop")
	m.IncFailure("noop", "")
	m.ObserveDuration("noop", time.Second)

	empty := NewGatewayMetrics(nil)
	empty.IncSuccess("cart.add_item")
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	RESTRequests.Reset()
	RESTErrors.Reset()

	ObserveRequest("private/buy", 20*time.Millisecond, false)
	ObserveRequest("private/buy", 5*time.Millisecond, true)

	if got := testutil.ToFloat64(RESTRequests.WithLabelValues("private/buy")); got != 2 {
		t.Errorf("expected 2 requests, got %f", got)
	}
	if got := testutil.ToFloat64(RESTErrors.WithLabelValues("private/buy")); got != 1 {
		t.Errorf("expected 1 error, got %f", got)
	}
}

func TestOrdersPlacedCounter(t *testing.T) {
	before := testutil.ToFloat64(OrdersPlaced)
	OrdersPlaced.Inc()
	if got := testutil.ToFloat64(OrdersPlaced); got != before+1 {
		t.Errorf("expected counter to advance by 1, got %f -> %f", before, got)
	}
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOrderEvent(t *testing.T) {
	before := testutil.ToFloat64(OrderEvents.WithLabelValues("order.created"))
	RecordOrderEvent("order.created")
	RecordOrderEvent("order.created")

	if got := testutil.ToFloat64(OrderEvents.WithLabelValues("order.created")); got != before+2 {
		t.Errorf("order.created = %v, want %v", got, before+2)
	}
}

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gogo-cafe/api/internal/order"
	"github.com/gogo-cafe/api/internal/status"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserverCounters(t *testing.T) {
	m := New(nil)

	m.OrderPlaced(order.Order{ID: "a"})
	m.OrderPlaced(order.Order{ID: "b"})
	m.OrderTransitioned(order.Order{Status: status.Waiting}, order.Order{Status: status.InProgress})

	if got := testutil.ToFloat64(m.OrdersPlaced); got != 2 {
		t.Errorf("orders placed: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("WAITING", "IN_PROGRESS")); got != 1 {
		t.Errorf("transitions: got %v, want 1", got)
	}
}

func TestHandlerExposesActiveQueue(t *testing.T) {
	m := New(func() float64 { return 7 })

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "gogo_orders_active_queue 7") {
		t.Errorf("active queue gauge missing from output:\n%s", body)
	}
}

func TestInstancesDoNotCollide(t *testing.T) {
	New(nil)
	New(nil)
}

package metrics

import (
	"net/http"

	"github.com/gogo-cafe/api/internal/order"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gogo"

// Metrics holds the API's collectors on a private registry so several
// instances can coexist in tests.
type Metrics struct {
	Requests     *prometheus.CounterVec
	LatencyMS    *prometheus.HistogramVec
	OrdersPlaced prometheus.Counter
	Transitions  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the HTTP and order collectors. activeQueue is sampled on
// every scrape; nil skips the gauge.
func New(activeQueue func() float64) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of orders placed.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order status transitions by source and target status.",
		}, []string{"from", "to"}),
		registry: reg,
	}

	reg.MustRegister(
		m.Requests, m.LatencyMS, m.OrdersPlaced, m.Transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if activeQueue != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "active_queue",
			Help:      "Orders currently waiting, in progress or ready.",
		}, activeQueue))
	}
	return m
}

func (m *Metrics) OrderPlaced(o order.Order) {
	m.OrdersPlaced.Inc()
}

func (m *Metrics) OrderTransitioned(before, after order.Order) {
	m.Transitions.WithLabelValues(string(before.Status), string(after.Status)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

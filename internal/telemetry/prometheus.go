package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics is the Prometheus registry scraped from the order API.
type HTTPMetrics struct {
	reg             *prometheus.Registry
	OrdersReceived  *prometheus.CounterVec
	NoticesReturned prometheus.Counter
}

func NewHTTPMetrics() *HTTPMetrics {
	r := prometheus.NewRegistry()
	received := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_received_total",
		Help: "Orders received over HTTP, by outcome.",
	}, []string{"status"})
	notices := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notices_returned_total",
		Help: "Fulfillment notices returned in HTTP responses.",
	})

	r.MustRegister(received, notices)
	return &HTTPMetrics{
		reg:             r,
		OrdersReceived:  received,
		NoticesReturned: notices,
	}
}

func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

package order

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Terminal order statuses as exposed on the request counter.
const (
	StatusConfirmed   = "confirmed"
	StatusRejected    = "rejected"
	StatusUnavailable = "service_unavailable"
	StatusError       = "error"
)

// Outbound call outcomes as exposed on the per-dependency counters.
const (
	CallSuccess  = "success"
	CallRejected = "rejected"
	CallFailure  = "error"
)

// Observer receives workflow callbacks at each decision point. It is
// injected so instrumentation stays out of the control flow; the workflow
// never reads anything back from it.
type Observer interface {
	OrderRequest(status, productID string)
	RequestDuration(endpoint string, elapsed time.Duration)
	InventoryCall(status string)
	NotificationCall(status string)
}

// NopObserver discards every callback.
type NopObserver struct{}

func (NopObserver) OrderRequest(string, string)           {}
func (NopObserver) RequestDuration(string, time.Duration) {}
func (NopObserver) InventoryCall(string)                  {}
func (NopObserver) NotificationCall(string)               {}

// Metrics is the Prometheus-backed Observer. Each instance owns a private
// registry, so independent instances never collide on registration.
type Metrics struct {
	registry             *prometheus.Registry
	orderRequests        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	inventoryRequests    *prometheus.CounterVec
	notificationRequests *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		orderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_requests_total",
			Help: "Total number of order requests",
		}, []string{"status", "product_id"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "order_request_duration_seconds",
			Help: "Order request duration in seconds",
		}, []string{"endpoint"}),
		inventoryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_requests_total",
			Help: "Total requests to inventory service",
		}, []string{"status"}),
		notificationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_requests_total",
			Help: "Total requests to notification service",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.orderRequests,
		m.requestDuration,
		m.inventoryRequests,
		m.notificationRequests,
	)
	return m
}

func (m *Metrics) OrderRequest(status, productID string) {
	m.orderRequests.WithLabelValues(status, productID).Inc()
}

func (m *Metrics) RequestDuration(endpoint string, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) InventoryCall(status string) {
	m.inventoryRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) NotificationCall(status string) {
	m.notificationRequests.WithLabelValues(status).Inc()
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

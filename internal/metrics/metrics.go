package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	MessagesPosted      prometheus.Counter
	MessagesRejected    prometheus.Counter
	MessagesStored      prometheus.Gauge
	StreamSubscribers   prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "board_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		MessagesPosted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "board_messages_posted_total",
				Help: "Total messages accepted",
			},
		),
		MessagesRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "board_messages_rejected_total",
				Help: "Total messages rejected for missing fields",
			},
		),
		MessagesStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "board_messages_stored",
				Help: "Messages currently held in memory",
			},
		),
		StreamSubscribers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "board_stream_subscribers",
				Help: "Open live stream connections",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// MessagePosted records an accepted message. The store never shrinks, so the
// stored gauge only moves up.
func (m *Metrics) MessagePosted() {
	if m == nil {
		return
	}
	m.MessagesPosted.Inc()
	m.MessagesStored.Inc()
}

// MessageRejected records a post that failed validation.
func (m *Metrics) MessageRejected() {
	if m == nil {
		return
	}
	m.MessagesRejected.Inc()
}

// StreamOpened and StreamClosed track live stream connections.
func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.StreamSubscribers.Inc()
}

func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.StreamSubscribers.Dec()
}

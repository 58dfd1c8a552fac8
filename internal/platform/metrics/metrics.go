// Package metrics expone contadores Prometheus del bot y del HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	reg prometheus.Gatherer

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	gatewayFailures   *prometheus.CounterVec
	sessionsFinalized *prometheus.CounterVec
	messages          *prometheus.CounterVec
}

// New crea y registra los colectores en reg (usar prometheus.NewRegistry() en tests).
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		reg: reg,
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		gatewayFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finca_gateway_failures_total",
			Help: "Store operations that failed, by operation.",
		}, []string{"op"}),
		sessionsFinalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finca_sessions_finalized_total",
			Help: "Conversation sessions that reached finalization, by activity kind.",
		}, []string{"kind"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finca_messages_total",
			Help: "Inbound WhatsApp messages, by route taken.",
		}, []string{"route"}),
	}
	reg.MustRegister(
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.gatewayFailures,
		m.sessionsFinalized,
		m.messages,
	)
	return m
}

func (m *Metrics) GatewayFailure(op string) {
	if m == nil {
		return
	}
	m.gatewayFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) SessionFinalized(kind string) {
	if m == nil {
		return
	}
	m.sessionsFinalized.WithLabelValues(kind).Inc()
}

func (m *Metrics) Message(route string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(route).Inc()
}

// Handler sirve /metrics del registro propio.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Instrument mide RPS, latencia y requests en vuelo. El path es el patrón de chi.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		status := strconv.Itoa(sw.code)
		m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus instrumentation for the dispatcher. Collectors live in a private
// registry so several dispatchers (and tests) never collide.

package control

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dispatcher's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	accepted   prometheus.Counter
	handshakes prometheus.Counter
	failures   *prometheus.CounterVec
	live       prometheus.Gauge
}

// NewMetrics registers the collectors under namespace (default "wsreactor").
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wsreactor"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		accepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accepted_total",
			Help:      "Connections accepted from the listening socket",
		}),
		handshakes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Opening handshakes completed with a 101 response",
		}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_failures_total",
			Help:      "Connections terminated by the dispatcher, by reason",
		}, []string{"reason"}),
		live: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_connections",
			Help:      "Connections currently owned by the registry",
		}),
	}
}

// ConnAccepted records a new registry entry.
func (m *Metrics) ConnAccepted() {
	if m == nil {
		return
	}
	m.accepted.Inc()
	m.live.Inc()
}

// HandshakeCompleted records a flushed 101 response.
func (m *Metrics) HandshakeCompleted() {
	if m == nil {
		return
	}
	m.handshakes.Inc()
}

// ConnFailed records a termination and drops the live count.
func (m *Metrics) ConnFailed(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
	m.live.Dec()
}

// ConnClosed drops the live count for an orderly close.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.live.Dec()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

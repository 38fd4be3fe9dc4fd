// Package metrics exposes Prometheus counters for store mutations and persistence.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered by the service.
type Metrics struct {
	registry        *prometheus.Registry
	mutations       *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	persistFailures prometheus.Counter
	imports         *prometheus.CounterVec
}

// New builds collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serialpro",
			Name:      "mutations_total",
			Help:      "Committed store mutations by operation.",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serialpro",
			Name:      "validation_rejections_total",
			Help:      "Create requests rejected for missing required fields.",
		}, []string{"op"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "serialpro",
			Name:      "persistence_write_failures_total",
			Help:      "Best-effort durable writes that failed.",
		}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serialpro",
			Name:      "imports_total",
			Help:      "Backup import attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.mutations, m.rejections, m.persistFailures, m.imports)
	return m
}

// Mutation counts a committed mutation.
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

// Rejection counts a validation rejection.
func (m *Metrics) Rejection(op string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(op).Inc()
}

// PersistFailure counts a failed durable write.
func (m *Metrics) PersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

// Import counts an import attempt outcome (staged, rejected, invalid).
func (m *Metrics) Import(outcome string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

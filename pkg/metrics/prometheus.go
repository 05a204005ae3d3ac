package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the agent's prometheus metrics on a private
// registry so tests can create collectors freely.
type Collector struct {
	registry           *prometheus.Registry
	queriesTotal       *prometheus.CounterVec
	queriesRejected    prometheus.Counter
	planFallbacks      prometheus.Counter
	transfersTotal     *prometheus.CounterVec
	validationFailures prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		queriesTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "agent_queries_total",
			Help: "Total number of processed queries by classified intent",
		}, []string{"intent"}),
		queriesRejected: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "agent_queries_rejected_total",
			Help: "Total number of queries rejected for low classification confidence",
		}),
		planFallbacks: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "agent_plan_fallbacks_total",
			Help: "Total number of deterministic fallback plans substituted for planner output",
		}),
		transfersTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "agent_transfers_total",
			Help: "Total number of transfer attempts by outcome",
		}, []string{"outcome"}),
		validationFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "agent_validation_failures_total",
			Help: "Total number of post-execution validation failures",
		}),
	}
}

// QueryProcessed records one classified query.
func (c *Collector) QueryProcessed(intent string) {
	c.queriesTotal.WithLabelValues(intent).Inc()
}

// QueryRejected records one low-confidence rejection.
func (c *Collector) QueryRejected() {
	c.queriesRejected.Inc()
}

// PlanFallback records one substitution of the deterministic fallback plan.
func (c *Collector) PlanFallback() {
	c.planFallbacks.Inc()
}

// TransferRecorded records one transfer attempt.
func (c *Collector) TransferRecorded(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.transfersTotal.WithLabelValues(outcome).Inc()
}

// ValidationFailed records one validation failure.
func (c *Collector) ValidationFailed() {
	c.validationFailures.Inc()
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Package metrics exposes Prometheus instrumentation for the recipe API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipes"

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	graphqlRequests *prometheus.CounterVec
	llmDuration     *prometheus.HistogramVec
	recipes         prometheus.Counter
	cacheLookups    *prometheus.CounterVec
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		graphqlRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graphql_requests_total",
				Help:      "GraphQL operations handled, by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		llmDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Latency of language model completions",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
			},
			[]string{"outcome"},
		),
		recipes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generated_total",
				Help:      "Recipes generated and stored",
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Recipe cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),
	}
}

// ObserveOperation counts one GraphQL operation
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.graphqlRequests.WithLabelValues(operation, outcome(err)).Inc()
}

// ObserveLLMRequest records a completion's latency
func (m *Metrics) ObserveLLMRequest(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.llmDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

// RecipeGenerated counts a stored recipe
func (m *Metrics) RecipeGenerated() {
	if m == nil {
		return
	}
	m.recipes.Inc()
}

// CacheLookup counts a cache lookup; result is hit, miss or error
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

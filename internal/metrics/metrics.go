package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "acs"

// Score entry outcomes
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
)

// Metrics holds the engine's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	TeamsGenerated      prometheus.Counter
	TeamBalanceDuration prometheus.Histogram
	ScoreEntries        *prometheus.CounterVec
	ScoreAdjustments    prometheus.Counter
	TournamentsFinished prometheus.Counter
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TeamsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "team_generations_total",
			Help:      "Number of times teams were generated for a tournament.",
		}),
		TeamBalanceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "team_balance_duration_seconds",
			Help:      "Time spent grouping and balancing players into teams.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		ScoreEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "team_score_entries_total",
			Help:      "Team score entries processed, by outcome.",
		}, []string{"outcome"}),
		ScoreAdjustments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_score_adjustments_total",
			Help:      "Individual player score adjustments written.",
		}),
		TournamentsFinished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_finished_total",
			Help:      "Tournaments marked as finished.",
		}),
	}
}

// WithRuntimeCollectors registers the Go runtime and process collectors
func (m *Metrics) WithRuntimeCollectors() *Metrics {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Commit outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeReplayed = "replayed"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Metrics holds the Prometheus collectors for the reconciliation service. Each instance
// owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Commit attempts by outcome
	Commits *prometheus.CounterVec

	// Store write latency for commits
	CommitLatency prometheus.Histogram

	// Open reconciliation sessions
	ActiveSessions prometheus.Gauge

	// Reports rendered by format
	ReportsRendered *prometheus.CounterVec
}

// New creates a Metrics instance with every collector registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Commits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "offering_commits_total",
			Help: "Commit attempts by outcome",
		}, []string{"outcome"}), // outcome: created, replayed, failed, rejected

		CommitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "offering_commit_duration_seconds",
			Help:    "Duration of the ledger append performed by a commit",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "offering_active_sessions",
			Help: "Reconciliation sessions currently held in memory",
		}),

		ReportsRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "offering_reports_rendered_total",
			Help: "Reports rendered by format",
		}, []string{"format"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// IncrementCommit records a commit outcome.
func (m *Metrics) IncrementCommit(outcome string) {
	if m != nil {
		m.Commits.WithLabelValues(outcome).Inc()
	}
}

// ObserveCommitLatency records how long the ledger append took.
func (m *Metrics) ObserveCommitLatency(d time.Duration) {
	if m != nil {
		m.CommitLatency.Observe(d.Seconds())
	}
}

// SetActiveSessions records the number of open sessions.
func (m *Metrics) SetActiveSessions(n int) {
	if m != nil {
		m.ActiveSessions.Set(float64(n))
	}
}

// IncrementReport records a rendered report.
func (m *Metrics) IncrementReport(format string) {
	if m != nil {
		m.ReportsRendered.WithLabelValues(format).Inc()
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IncrementCommit(OutcomeCreated)
	m.IncrementCommit(OutcomeCreated)
	m.IncrementCommit(OutcomeFailed)
	m.IncrementReport("text")
	m.SetActiveSessions(3)
	m.ObserveCommitLatency(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commits.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commits.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsRendered.WithLabelValues("text")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.IncrementCommit(OutcomeCreated)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.Commits.WithLabelValues(OutcomeCreated)))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementCommit(OutcomeCreated)
		m.ObserveCommitLatency(time.Second)
		m.SetActiveSessions(1)
		m.IncrementReport("xlsx")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncrementCommit(OutcomeReplayed)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `offering_commits_total{outcome="replayed"} 1`)
}

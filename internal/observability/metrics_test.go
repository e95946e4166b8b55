package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	m := NewMetrics("test_knowledge_engine_new")

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.ReputationRequests)
	assert.NotNil(t, m.ReputationByLevel)
	assert.NotNil(t, m.ReputationDuration)
	assert.NotNil(t, m.SignalFetchFailures)
	assert.NotNil(t, m.UpstreamRequestsTotal)
	assert.NotNil(t, m.UpstreamRequestsFailed)
	assert.NotNil(t, m.UpstreamRequestDuration)
	assert.NotNil(t, m.SearchesTotal)
	assert.NotNil(t, m.AbstractsByStage)
	assert.NotNil(t, m.SummarizeFallbacks)
	assert.NotNil(t, m.TranslateFallbacks)
}

func TestReputationCounters(t *testing.T) {
	m := NewMetrics("test_ke_reputation_counters")

	initial := testutil.ToFloat64(m.ReputationRequests)
	m.ReputationRequests.Inc()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.ReputationRequests))

	m.ReputationByLevel.WithLabelValues("Low").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReputationByLevel.WithLabelValues("Low")))
}

func TestSignalFetchFailures(t *testing.T) {
	m := NewMetrics("test_ke_signal_failures")

	m.SignalFetchFailures.WithLabelValues("citations").Inc()
	m.SignalFetchFailures.WithLabelValues("citations").Inc()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SignalFetchFailures.WithLabelValues("citations")))

	// Other signals remain untouched.
	assert.Equal(t, float64(0), testutil.ToFloat64(m.SignalFetchFailures.WithLabelValues("summary")))
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the knowledge engine.
// Metrics are organized by subsystem: HTTP serving, the reputation pipeline,
// upstream E-utilities calls, and the text endpoints. All counters and
// histograms are registered via promauto with the default registry.
type Metrics struct {
	// HTTPRequestsTotal counts inbound HTTP requests, labeled by route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes inbound request duration in seconds, labeled by route.
	HTTPRequestDuration *prometheus.HistogramVec

	// ReputationRequests counts reputation computations performed.
	ReputationRequests prometheus.Counter

	// ReputationByLevel counts composite results, labeled by qualitative level.
	ReputationByLevel *prometheus.CounterVec

	// ReputationDuration observes end-to-end reputation pipeline duration in seconds.
	ReputationDuration prometheus.Histogram

	// SignalFetchFailures counts degraded-to-default signal fetches, labeled by signal.
	SignalFetchFailures *prometheus.CounterVec

	// UpstreamRequestsTotal counts calls to upstream APIs, labeled by source and endpoint.
	UpstreamRequestsTotal *prometheus.CounterVec

	// UpstreamRequestsFailed counts failed upstream calls, labeled by source and endpoint.
	UpstreamRequestsFailed *prometheus.CounterVec

	// UpstreamRequestDuration observes upstream call duration in seconds, labeled by source.
	UpstreamRequestDuration *prometheus.HistogramVec

	// SearchesTotal counts search requests served.
	SearchesTotal prometheus.Counter

	// AbstractsByStage counts abstract retrievals, labeled by the stage that
	// produced the text (xml, text, html, none).
	AbstractsByStage *prometheus.CounterVec

	// SummarizeFallbacks counts summarize requests answered by the extractive fallback.
	SummarizeFallbacks prometheus.Counter

	// TranslateFallbacks counts translation items returned untranslated after upstream failure.
	TranslateFallbacks prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of inbound HTTP requests",
		}, []string{"route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ReputationRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reputation_requests_total",
			Help:      "Total number of reputation computations",
		}),
		ReputationByLevel: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reputation_by_level_total",
			Help:      "Composite reputation results by qualitative level",
		}, []string{"level"}),
		ReputationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reputation_duration_seconds",
			Help:      "End-to-end duration of the reputation pipeline in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}),
		SignalFetchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signal_fetch_failures_total",
			Help:      "Signal fetches that degraded to their default value",
		}, []string{"signal"}),
		UpstreamRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to upstream APIs",
		}, []string{"source", "endpoint"}),
		UpstreamRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_failed_total",
			Help:      "Failed requests to upstream APIs",
		}, []string{"source", "endpoint"}),
		UpstreamRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream API requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 12},
		}, []string{"source"}),
		SearchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of search requests served",
		}),
		AbstractsByStage: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "abstracts_by_stage_total",
			Help:      "Abstract retrievals by the fallback stage that produced text",
		}, []string{"stage"}),
		SummarizeFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarize_fallbacks_total",
			Help:      "Summarize requests answered by the extractive fallback",
		}),
		TranslateFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translate_fallbacks_total",
			Help:      "Translation items returned untranslated after upstream failure",
		}),
	}
}

// RecordUpstreamRequest records one call to an upstream API. It is safe to
// call on a nil receiver so upstream clients can run without metrics wired.
func (m *Metrics) RecordUpstreamRequest(source, endpoint string, duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(source, endpoint).Inc()
	m.UpstreamRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
	if failed {
		m.UpstreamRequestsFailed.WithLabelValues(source, endpoint).Inc()
	}
}

// RecordSignalFailure records one signal fetch that degraded to its default.
func (m *Metrics) RecordSignalFailure(signal string) {
	if m == nil {
		return
	}
	m.SignalFetchFailures.WithLabelValues(signal).Inc()
}

// RecordReputation records one completed composite computation.
func (m *Metrics) RecordReputation(level string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ReputationRequests.Inc()
	m.ReputationByLevel.WithLabelValues(level).Inc()
	m.ReputationDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records one inbound HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAbstractStage records which fallback stage produced an abstract.
func (m *Metrics) RecordAbstractStage(stage string) {
	if m == nil {
		return
	}
	m.AbstractsByStage.WithLabelValues(stage).Inc()
}

// RecordSearch records one search request served.
func (m *Metrics) RecordSearch() {
	if m == nil {
		return
	}
	m.SearchesTotal.Inc()
}

// RecordSummarizeFallback records one summarize request answered extractively.
func (m *Metrics) RecordSummarizeFallback() {
	if m == nil {
		return
	}
	m.SummarizeFallbacks.Inc()
}

// RecordTranslateFallback records one translation item returned untranslated.
func (m *Metrics) RecordTranslateFallback() {
	if m == nil {
		return
	}
	m.TranslateFallbacks.Inc()
}

// Package metrics exposes alignment quality and model-call health as
// Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

const namespace = "frenchreader"

// Recorder owns the registry and the analysis metrics.
type Recorder struct {
	registry *prometheus.Registry

	items     *prometheus.CounterVec
	matchRate prometheus.Histogram
	upstream  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewRecorder registers the analysis metrics together with the Go and process
// collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotation_items_total",
			Help:      "Annotation items reconciled, by category and match outcome.",
		}, []string{"category", "outcome"}),
		matchRate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_match_rate_percent",
			Help:      "Share of annotation items located in the text per analysis.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Failed model calls, by provider and failure kind.",
		}, []string{"provider", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_duration_seconds",
			Help:      "Latency of model calls that reached the provider.",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		r.items, r.matchRate, r.upstream, r.duration,
	)
	return r
}

// Observe records the match statistics of one reconciliation pass.
func (r *Recorder) Observe(stats domain.AnalysisStats) {
	r.observeGroup(domain.CategoryWord, stats.Vocabulary)
	r.observeGroup(domain.CategoryExpression, stats.Expressions)
	r.observeGroup(domain.CategoryGrammar, stats.Grammar)
	if stats.TotalItems > 0 {
		r.matchRate.Observe(float64(stats.MatchRate))
	}
}

func (r *Recorder) observeGroup(cat domain.Category, s domain.MatchStats) {
	add := func(outcome domain.MatchOutcome, n int) {
		if n > 0 {
			r.items.WithLabelValues(string(cat), string(outcome)).Add(float64(n))
		}
	}
	add(domain.MatchExact, s.Exact)
	add(domain.MatchCaseInsensitive, s.CaseInsensitive)
	add(domain.MatchAccentInsensitive, s.AccentInsensitive)
	add(domain.MatchNotFound, s.NotFound)
}

// UpstreamFailure counts a failed model call. Errors that are not classified
// upstream failures are counted under "other".
func (r *Recorder) UpstreamFailure(provider string, err error) {
	kind := domain.UpstreamKind(err)
	if kind == "" {
		kind = "other"
	}
	r.upstream.WithLabelValues(provider, kind).Inc()
}

// ModelCall records the latency of one model call.
func (r *Recorder) ModelCall(provider string, took time.Duration) {
	r.duration.WithLabelValues(provider).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments match execution. A nil *Metrics is valid and records nothing.
type Metrics struct {
	matches          *prometheus.CounterVec
	failures         *prometheus.CounterVec
	matchDuration    prometheus.Histogram
	batchDuration    prometheus.Histogram
	filteredOut      prometheus.Counter
	similarityErrors prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		matches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matcher_matches_total",
				Help: "Total number of scored resource and requirement pairs by rank",
			},
			[]string{"rank"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matcher_failures_total",
				Help: "Total number of match failures by kind and dimension",
			},
			[]string{"kind", "dimension"},
		),
		matchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "matcher_match_duration_seconds",
				Help:    "Duration of scoring a single pair in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		batchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name: "matcher_batch_duration_seconds",
				Help: "Duration of a batch match in seconds",
			},
		),
		filteredOut: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matcher_filtered_resources_total",
				Help: "Total number of resources excluded by pre-filters",
			},
		),
		similarityErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matcher_similarity_errors_total",
				Help: "Total number of similarity provider errors",
			},
		),
	}
}

func (m *Metrics) ObserveMatch(rank string, d time.Duration) {
	if m == nil {
		return
	}
	m.matches.WithLabelValues(rank).Inc()
	m.matchDuration.Observe(d.Seconds())
}

// ObserveFailure counts a validation failure (empty dimension) or a dimension
// computation failure.
func (m *Metrics) ObserveFailure(kind, dimension string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind, dimension).Inc()
	if dimension == "semantic" {
		m.similarityErrors.Inc()
	}
}

func (m *Metrics) ObserveFiltered(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.filteredOut.Add(float64(n))
}

func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
}

// Handler exposes the collectors of g over HTTP.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

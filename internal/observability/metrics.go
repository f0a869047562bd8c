package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// cleaning pipeline and the analytics API.
type Metrics struct {
	PipelineRuns     prometheus.Counter
	PipelineFailures *prometheus.CounterVec // label: stage
	RunDuration      prometheus.Histogram

	RowsMerged  prometheus.Gauge // rows surviving the join in the last run
	RowsDropped prometheus.Gauge // rows removed by drop-missing in the last run

	DatasetCache *prometheus.CounterVec // label: result={hit,miss}
	FetchRows    *prometheus.CounterVec // label: source
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRuns,
		m.PipelineFailures,
		m.RunDuration,
		m.RowsMerged,
		m.RowsDropped,
		m.DatasetCache,
		m.FetchRows,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "pipeline_runs_total",
			Help:      "Total cleaning pipeline runs, successful or not.",
		}),
		PipelineFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "pipeline_failures_total",
			Help:      "Cleaning pipeline failures by stage.",
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covid_etl",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Duration of a complete load-merge-standardize-persist run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RowsMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "rows_merged",
			Help:      "Rows surviving the inner join in the most recent run.",
		}),
		RowsDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "rows_dropped",
			Help:      "Rows removed by the drop-missing step in the most recent run.",
		}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "dataset_cache_total",
			Help:      "Cleaned dataset cache lookups by result.",
		}, []string{"result"}),
		FetchRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "fetch_rows_total",
			Help:      "Rows retrieved from remote sources by the public data merger.",
		}, []string{"source"}),
	}
}

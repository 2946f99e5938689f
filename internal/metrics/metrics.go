package metrics

import (
	"net/http"
	"time"

	"branchbench/internal/benchmark"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics represents the collection of Prometheus metrics for a comparison run
type Metrics struct {
	Registry *prometheus.Registry

	BranchRuns       *prometheus.CounterVec
	RunnerDuration   *prometheus.HistogramVec
	Checkouts        *prometheus.CounterVec
	BenchmarksLoaded *prometheus.GaugeVec
	MetricValue      *prometheus.GaugeVec
}

// NewMetrics creates all metrics on a private registry so that several
// instances can coexist (tests, embedded use).
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.BranchRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchbench_branch_runs_total",
			Help: "Total number of benchmark suite runs, per branch and outcome",
		},
		[]string{"branch", "status"},
	)

	m.RunnerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "branchbench_runner_duration_seconds",
			Help:    "Wall time of one benchmark child process",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"branch"},
	)

	m.Checkouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchbench_checkouts_total",
			Help: "Total number of git checkouts, per outcome",
		},
		[]string{"status"},
	)

	m.BenchmarksLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "branchbench_benchmarks",
			Help: "Number of benchmark records produced by the last run of a branch",
		},
		[]string{"branch"},
	)

	m.MetricValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "branchbench_metric_value",
			Help: "Last measured value of a benchmark metric",
		},
		[]string{"branch", "benchmark", "metric"},
	)

	m.Registry.MustRegister(
		m.BranchRuns,
		m.RunnerDuration,
		m.Checkouts,
		m.BenchmarksLoaded,
		m.MetricValue,
	)

	return m
}

// ObserveRun records the outcome of one child process.
func (m *Metrics) ObserveRun(branch string, elapsed time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.BranchRuns.WithLabelValues(branch, status).Inc()
	m.RunnerDuration.WithLabelValues(branch).Observe(elapsed.Seconds())
}

// ObserveCheckout records the outcome of a checkout.
func (m *Metrics) ObserveCheckout(err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.Checkouts.WithLabelValues(status).Inc()
}

// RecordResults exports the values of one branch's result set.
func (m *Metrics) RecordResults(branch string, results benchmark.ResultSet) {
	m.BenchmarksLoaded.WithLabelValues(branch).Set(float64(len(results)))
	for _, rec := range results {
		for metric, v := range rec.Metrics {
			m.MetricValue.WithLabelValues(branch, rec.Benchmark, metric).Set(v)
		}
	}
}

// Handler returns the Prometheus HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

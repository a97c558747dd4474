package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dwd_pollen"

// Metrics holds the Prometheus collectors for the fetch/resolve pipeline.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec // labels: outcome={success,transport,parse,data_shape}
	FetchDuration prometheus.Histogram

	RefreshTotal    *prometheus.CounterVec // labels: outcome={refreshed,throttled,busy}
	RefreshFailures *prometheus.CounterVec // labels: kind
	ExposureLevel   *prometheus.GaugeVec   // labels: partregion, category

	SchedulerRuns prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Feed fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single feed request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Sensor refresh calls by outcome.",
		}, []string{"outcome"}),
		RefreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Refreshes that produced an unavailable snapshot, by failure kind.",
		}, []string{"kind"}),
		ExposureLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exposure_level",
			Help:      "Latest resolved exposure rank (0-6, -1 when unknown).",
		}, []string{"partregion", "category"}),
		SchedulerRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_runs_total",
			Help:      "Scheduler ticks that triggered a refresh of all sensors.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.RefreshTotal,
		m.RefreshFailures,
		m.ExposureLevel,
		m.SchedulerRuns,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

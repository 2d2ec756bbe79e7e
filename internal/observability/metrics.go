package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spidermap"

// Metrics holds Prometheus counters and histograms for the dashboard.
type Metrics struct {
	// Loader metrics.
	LoaderCache  *prometheus.CounterVec   // labels: kind={occurrences,regions}, result={hit,miss}
	LoadDuration *prometheus.HistogramVec // labels: kind={occurrences,regions}
	LoadedRows   prometheus.Gauge

	// Rendering metrics.
	RenderDuration *prometheus.HistogramVec // labels: figure={choropleth,scatter,climate}
	RenderErrors   prometheus.Counter

	// HTTP metrics.
	HTTPRequests *prometheus.CounterVec // labels: route, status
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.LoaderCache,
		m.LoadDuration,
		m.LoadedRows,
		m.RenderDuration,
		m.RenderErrors,
		m.HTTPRequests,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can create as many instances as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LoaderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loader_cache_total",
			Help:      "Loader cache lookups by data kind and result.",
		}, []string{"kind", "result"}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of reading and parsing of an input file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		LoadedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_rows",
			Help:      "Number of occurrence rows in the last loaded snapshot.",
		}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of building a figure.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"figure"}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Total figure rendering failures.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
	}
}

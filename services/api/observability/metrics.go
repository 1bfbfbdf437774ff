package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for upstream fetches and the
// normalization pipeline.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec   // labels: resource={stations,historical}, outcome
	UpstreamRetries  *prometheus.CounterVec   // labels: resource
	UpstreamDuration *prometheus.HistogramVec // labels: resource

	SeriesRowsKept    prometheus.Histogram
	SeriesRowsDropped prometheus.Counter
	CatalogStations   prometheus.Gauge
	CatalogCache      *prometheus.CounterVec // labels: result={hit,miss}
	ChartsRendered    *prometheus.CounterVec // labels: format={json,png}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamRetries,
		m.UpstreamDuration,
		m.SeriesRowsKept,
		m.SeriesRowsDropped,
		m.CatalogStations,
		m.CatalogCache,
		m.ChartsRendered,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that no registry exposes, for
// short-lived processes such as the CLI that have no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asos_explorer",
			Name:      "upstream_requests_total",
			Help:      "Upstream fetch attempts by resource and outcome.",
		}, []string{"resource", "outcome"}),
		UpstreamRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asos_explorer",
			Name:      "upstream_retries_total",
			Help:      "Upstream fetch retries after a failed attempt.",
		}, []string{"resource"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "asos_explorer",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of a single upstream attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"resource"}),
		SeriesRowsKept: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "asos_explorer",
			Name:      "series_rows",
			Help:      "Rows per normalized station series.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
		}),
		SeriesRowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "asos_explorer",
			Name:      "series_rows_dropped_total",
			Help:      "Historical rows dropped for a missing or unparseable timestamp.",
		}),
		CatalogStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "asos_explorer",
			Name:      "catalog_stations",
			Help:      "Stations in the most recently built catalog.",
		}),
		CatalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asos_explorer",
			Name:      "catalog_cache_total",
			Help:      "Station catalog cache lookups by result.",
		}, []string{"result"}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asos_explorer",
			Name:      "charts_rendered_total",
			Help:      "Chart views served by format.",
		}, []string{"format"}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the API and the reload pipeline.
type Metrics struct {
	// HTTP metrics.
	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: method, route

	// Reload metrics.
	Reloads        *prometheus.CounterVec // labels: outcome={success,invalid,error}
	ReloadDuration prometheus.Histogram
	DatasetRows    *prometheus.GaugeVec // labels: table={species,collections}

	// Coordinate metrics.
	Coordinates        *prometheus.CounterVec // labels: result={parsed,invalid,missing}
	CoordinateBackfill prometheus.Counter
	FieldDegradations  *prometheus.CounterVec // labels: kind={number,date}

	// Archive metrics.
	ArchiveUploads *prometheus.CounterVec // labels: outcome={success,error}
}

const namespace = "seedtracker"

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Dataset reloads by outcome.",
		}, []string{"outcome"}),
		ReloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Duration of a normalize-and-load cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows loaded by the last successful reload.",
		}, []string{"table"}),
		Coordinates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordinates_total",
			Help:      "Coordinate strings seen during normalization by result.",
		}, []string{"result"}),
		CoordinateBackfill: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordinate_backfills_total",
			Help:      "Coordinates derived at read time for records stored without them.",
		}),
		FieldDegradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_degradations_total",
			Help:      "Unparseable cells stored as null, by kind.",
		}, []string{"kind"}),
		ArchiveUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_uploads_total",
			Help:      "Source files mirrored to object storage by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Reloads,
		m.ReloadDuration,
		m.DatasetRows,
		m.Coordinates,
		m.CoordinateBackfill,
		m.FieldDegradations,
		m.ArchiveUploads,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

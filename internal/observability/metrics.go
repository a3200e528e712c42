package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "heatmap"

// Metrics holds the Prometheus counters, histograms, and gauges for the heat map service.
type Metrics struct {
	// Dataset loading.
	DatasetFetches       *prometheus.CounterVec // labels: outcome={success,error}
	DatasetFetchDuration prometheus.Histogram
	DatasetCache         *prometheus.CounterVec // labels: result={hit,miss,error}
	DatasetRecords       prometheus.Gauge
	ChartReady           prometheus.Gauge

	// Rendering.
	Renders        *prometheus.CounterVec   // labels: format={html,svg,png,json}
	RenderDuration *prometheus.HistogramVec // labels: format

	// Cell publishing.
	CellsPublished prometheus.Counter
	PublishErrors  prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetFetches,
		m.DatasetFetchDuration,
		m.DatasetCache,
		m.DatasetRecords,
		m.ChartReady,
		m.Renders,
		m.RenderDuration,
		m.CellsPublished,
		m.PublishErrors,
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
		DatasetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_fetches_total",
			Help:      "Dataset fetches by outcome.",
		}, []string{"outcome"}),
		DatasetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of the dataset HTTP request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_total",
			Help:      "Payload cache lookups by result.",
		}, []string{"result"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Monthly records in the loaded dataset.",
		}),
		ChartReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chart_ready",
			Help:      "1 once the chart has been built, 0 before.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Chart renders by output format.",
		}, []string{"format"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of a chart render by output format.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"format"}),
		CellsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_published_total",
			Help:      "Cell records written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed cell publish attempts.",
		}),
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tableRows     *prometheus.GaugeVec
	tableLoad     *prometheus.HistogramVec
	chartBuilds   *prometheus.CounterVec
	selectionRows *prometheus.HistogramVec
	cacheResults  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg. Collectors already
// registered on reg are reused.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		tableRows: register(reg, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "voldash_table_rows",
				Help: "Rows held in memory per source table",
			},
			[]string{"table"},
		)),
		tableLoad: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voldash_table_load_duration_seconds",
				Help:    "Time spent loading a source table",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table"},
		)),
		chartBuilds: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voldash_chart_builds_total",
				Help: "Chart specifications built, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		)),
		selectionRows: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voldash_selection_rows",
				Help:    "Rows matched by a resolved selection",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
			},
			[]string{"kind"},
		)),
		cacheResults: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voldash_chart_cache_total",
				Help: "Chart cache lookups by result",
			},
			[]string{"kind", "result"},
		)),
		errorsTotal: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voldash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		)),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// RecordTableLoaded records a completed table load.
func (r *Recorder) RecordTableLoaded(table string, rows int, d time.Duration) {
	r.tableRows.WithLabelValues(table).Set(float64(rows))
	r.tableLoad.WithLabelValues(table).Observe(d.Seconds())
}

// RecordChartBuild counts a chart build attempt.
func (r *Recorder) RecordChartBuild(kind, outcome string) {
	r.chartBuilds.WithLabelValues(kind, outcome).Inc()
}

// RecordSelectionRows observes how many rows a selection matched.
func (r *Recorder) RecordSelectionRows(kind string, rows int) {
	r.selectionRows.WithLabelValues(kind).Observe(float64(rows))
}

// RecordCacheResult counts a cache hit or miss.
func (r *Recorder) RecordCacheResult(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheResults.WithLabelValues(kind, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

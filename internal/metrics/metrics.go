// Package metrics records per-run parse counters for Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for parse and export runs on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Lines         *prometheus.CounterVec
	Records       *prometheus.CounterVec
	Dropped       *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	Exports       *prometheus.CounterVec
	ParseDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weblog_lines_total",
			Help: "Log lines read and decoded.",
		}, []string{"format"}),
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weblog_records_total",
			Help: "Records extracted from matched lines.",
		}, []string{"format"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weblog_lines_dropped_total",
			Help: "Lines that did not match the format grammar.",
		}, []string{"format"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weblog_parse_failures_total",
			Help: "Parses aborted by a read, decode or timestamp error.",
		}, []string{"format"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weblog_exports_total",
			Help: "Export files written.",
		}, []string{"format"}),
		ParseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weblog_parse_duration_seconds",
			Help:    "Wall time to parse one line source.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"format"}),
	}

	m.registry.MustRegister(m.Lines, m.Records, m.Dropped, m.Failures, m.Exports, m.ParseDuration)
	return m
}

// Gatherer exposes the registry, e.g. for promhttp or tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveParse records how long a parse of the given format took.
func (m *Metrics) ObserveParse(format string, d time.Duration) {
	m.ParseDuration.WithLabelValues(format).Observe(d.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format, atomically, for
// the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

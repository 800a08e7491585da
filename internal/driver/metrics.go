package driver

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what a run did. A nil *Metrics records nothing.
type Metrics struct {
	reg         *prometheus.Registry
	files       prometheus.Counter
	skipped     *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	fileSeconds prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ocalint",
			Name:      "files_analyzed_total",
			Help:      "Files parsed and checked.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocalint",
			Name:      "files_skipped_total",
			Help:      "Files that produced no diagnostics because they could not be read or parsed.",
		}, []string{"reason"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocalint",
			Name:      "diagnostics_total",
			Help:      "Diagnostics emitted, by code.",
		}, []string{"code"}),
		fileSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ocalint",
			Name:      "file_analysis_seconds",
			Help:      "Time spent analyzing a single file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	m.reg.MustRegister(m.files, m.skipped, m.diagnostics, m.fileSeconds)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// WriteTextfile dumps the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func (m *Metrics) observeFile(ev Event) {
	if m == nil {
		return
	}
	m.fileSeconds.Observe(ev.Elapsed.Seconds())
	if ev.Status == StatusSkipped {
		m.skipped.WithLabelValues(ev.Reason).Inc()
		return
	}
	m.files.Inc()
}

func (m *Metrics) observeCode(code string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(code).Inc()
}

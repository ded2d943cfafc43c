// Package metrics holds the prometheus instruments of a classification run.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kr2r"

// Classify contains the per-run classification metrics.
type Classify struct {
	Sequences     prometheus.Counter
	Classified    prometheus.Counter
	Unclassified  prometheus.Counter
	Batches       prometheus.Counter
	BatchDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewClassify creates the metrics and registers them in a private registry.
func NewClassify() *Classify {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      name,
			Help:      help,
		})
	}
	m := &Classify{
		Sequences:    counter("sequences_total", "Reads or read pairs processed"),
		Classified:   counter("classified_total", "Reads or read pairs assigned a taxon"),
		Unclassified: counter("unclassified_total", "Reads or read pairs left unclassified"),
		Batches:      counter("batches_total", "Batches classified"),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "batch_duration_seconds",
			Help:      "Time spent classifying one batch",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.Sequences, m.Classified, m.Unclassified, m.Batches, m.BatchDuration)
	return m
}

// ObserveBatch records one classified batch. It is safe for concurrent use.
func (m *Classify) ObserveBatch(records, classified int, elapsed time.Duration) {
	m.Batches.Inc()
	m.Sequences.Add(float64(records))
	m.Classified.Add(float64(classified))
	m.Unclassified.Add(float64(records - classified))
	m.BatchDuration.Observe(elapsed.Seconds())
}

// Registry exposes the private registry as a gatherer.
func (m *Classify) Registry() prometheus.Gatherer { return m.registry }

// WriteTextfile writes a text-format snapshot of all metrics to path.
func (m *Classify) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.registry), "writing metrics to %s", path)
}

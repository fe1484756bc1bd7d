// Package metrics counts pipeline activity and exports it in the textfile
// collector format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "airport_sentiment"

// Metrics holds all pipeline collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RecordsScored    *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	RecordsCollected *prometheus.CounterVec
	SummaryRows      *prometheus.GaugeVec
	StageDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsScored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_scored_total",
			Help:      "Records scored per topic.",
		}, []string{"topic"}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neutral_fallbacks_total",
			Help:      "Records that received the neutral default, by reason.",
		}, []string{"reason"}),
		RecordsCollected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_collected_total",
			Help:      "Raw text records fetched per source.",
		}, []string{"source"}),
		SummaryRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_rows",
			Help:      "Airports present in the latest topic summary.",
		}, []string{"topic"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		}, []string{"stage"}),
	}
}

// Registry exposes the gatherer, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Scored(topic string) {
	if m == nil {
		return
	}
	m.RecordsScored.WithLabelValues(topic).Inc()
}

// Fallback counts a record that received the neutral default.
func (m *Metrics) Fallback(reason string) {
	if m == nil || reason == "" {
		return
	}
	m.Fallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) Collected(source string, n int) {
	if m == nil {
		return
	}
	m.RecordsCollected.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) Summarized(topic string, rows int) {
	if m == nil {
		return
	}
	m.SummaryRows.WithLabelValues(topic).Set(float64(rows))
}

// Stage returns a func that observes the elapsed time when called.
func (m *Metrics) Stage(stage string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

// WriteTextfile dumps every collector to path, creating its directory.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

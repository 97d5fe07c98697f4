// Package metrics exposes prometheus instrumentation of Ybus builds. A nil
// *Metrics records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/msg"
)

type Metrics struct {
	BuildsTotal         *prometheus.CounterVec
	BuildDuration       *prometheus.HistogramVec
	RecordsExcluded     *prometheus.CounterVec
	AnomaliesTotal      *prometheus.CounterVec
	UnsupportedElements *prometheus.CounterVec
	MessagesDropped     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates every collector on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		BuildsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ybus_builds_total",
				Help: "Total number of Ybus builds by area and result",
			},
			[]string{"area", "result"},
		),
		BuildDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ybus_build_duration_seconds",
				Help:    "Ybus build duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
			},
			[]string{"area"},
		),
		RecordsExcluded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ybus_records_excluded_total",
				Help: "Element records excluded for null or malformed fields",
			},
			[]string{"category"},
		),
		AnomaliesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ybus_anomalies_total",
				Help: "Stamping anomalies by kind",
			},
			[]string{"kind"},
		),
		UnsupportedElements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ybus_unsupported_elements_total",
				Help: "Elements skipped during assembly by reason",
			},
			[]string{"kind"},
		),
		MessagesDropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ybus_messages_dropped_total",
				Help: "Messages dropped on a full subscriber inbox by topic",
			},
			[]string{"topic"},
		),
		registry: reg,
	}
}

// Registry returns the underlying prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordExcluded implements model.Observer
func (m *Metrics) RecordExcluded(c model.Category) {
	if m == nil {
		return
	}
	m.RecordsExcluded.WithLabelValues(string(c)).Inc()
}

// RecordBuild counts one build of area
func (m *Metrics) RecordBuild(area string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.BuildsTotal.WithLabelValues(area, result).Inc()
	m.BuildDuration.WithLabelValues(area).Observe(d.Seconds())
}

// RecordAnomalies adds per-kind anomaly counts
func (m *Metrics) RecordAnomalies(counts map[string]int) {
	if m == nil {
		return
	}
	for kind, n := range counts {
		m.AnomaliesTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordSkipped adds per-reason skip counts
func (m *Metrics) RecordSkipped(counts map[string]int) {
	if m == nil {
		return
	}
	for kind, n := range counts {
		m.UnsupportedElements.WithLabelValues(kind).Add(float64(n))
	}
}

// MessageDropped implements msg.DropObserver
func (m *Metrics) MessageDropped(topic msg.Topic) {
	if m == nil {
		return
	}
	m.MessagesDropped.WithLabelValues(topic.String()).Inc()
}

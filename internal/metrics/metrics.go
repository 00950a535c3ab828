// Package metrics exposes pipeline counters and timings in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StageExtract  = "extract"
	StageGenerate = "generate"
	StagePublish  = "publish"

	OutcomePublished = "published"
)

// Metrics owns a private registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pipelineTotal *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	quizzesStored prometheus.Gauge
}

// New creates the collectors, including Go runtime and process metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		// outcome: published or the error code of the failure
		pipelineTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docquiz_pipeline_total",
				Help: "Total number of document-to-quiz pipeline executions",
			},
			[]string{"outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docquiz_stage_duration_seconds",
				Help:    "Time spent in each pipeline stage",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
		quizzesStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "docquiz_quizzes_stored",
				Help: "Current number of quizzes held in memory",
			},
		),
	}
}

func (m *Metrics) ObservePipeline(outcome string) {
	if m == nil {
		return
	}
	m.pipelineTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) SetQuizzesStored(n int) {
	if m == nil {
		return
	}
	m.quizzesStored.Set(float64(n))
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

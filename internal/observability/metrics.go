// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omarshaarawi/powerbot/internal/models"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	TradeCandidates   *prometheus.GaugeVec
	ValuesResolved    *prometheus.CounterVec
	ScarcityFallbacks prometheus.Counter

	// Upstream metrics
	UpstreamRequests *prometheus.CounterVec
	CacheHits        prometheus.Counter

	// Health metrics
	LastSuccessfulPipeline prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "powerbot"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of report generations by status",
		}, []string{"status"}),
		PipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Report generation duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"phase"}),
		TradeCandidates: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trades",
			Name:      "candidates",
			Help:      "Trade candidates in the last run by stage",
		}, []string{"stage"}),
		ValuesResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "players_resolved_total",
			Help:      "Total number of player values resolved by source tier",
		}, []string{"source"}),
		ScarcityFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scarcity",
			Name:      "fallbacks_total",
			Help:      "Total number of runs where scarcity fell back to static multipliers",
		}),

		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream requests by source and status",
		}, []string{"source", "status"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "cache_hits_total",
			Help:      "Total number of upstream responses served from cache",
		}),

		LastSuccessfulPipeline: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pipeline_timestamp",
			Help:      "Unix timestamp of last successful report generation",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordPipelineRun records a report generation and its duration.
func (m *Metrics) RecordPipelineRun(status string, durationSeconds float64) {
	m.PipelineRunsTotal.WithLabelValues(status).Inc()
	m.PipelineDuration.WithLabelValues("total").Observe(durationSeconds)
}

func (m *Metrics) RecordPhase(phase string, durationSeconds float64) {
	m.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordTrades sets the candidate gauges for the last run.
func (m *Metrics) RecordTrades(generated, retained int) {
	m.TradeCandidates.WithLabelValues("generated").Set(float64(generated))
	m.TradeCandidates.WithLabelValues("retained").Set(float64(retained))
}

func (m *Metrics) RecordValueSources(tally map[models.ValueSource]int) {
	for src, n := range tally {
		m.ValuesResolved.WithLabelValues(string(src)).Add(float64(n))
	}
}

func (m *Metrics) RecordScarcityFallback() {
	m.ScarcityFallbacks.Inc()
}

// RecordUpstream counts one upstream call. status is "ok", "error" or "cached".
func (m *Metrics) RecordUpstream(source, status string) {
	m.UpstreamRequests.WithLabelValues(source, status).Inc()
	if status == "cached" {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) MarkSuccess(unix int64) {
	m.LastSuccessfulPipeline.Set(float64(unix))
}

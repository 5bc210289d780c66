// Package metrics provides Prometheus metrics for placement evaluations.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics records placement request outcomes and latency.
// It satisfies core.MetricsRecorder.
type EvaluationMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewEvaluationMetrics creates the collectors and registers them on registry.
func NewEvaluationMetrics(registry prometheus.Registerer) (*EvaluationMetrics, error) {
	m := &EvaluationMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoo_placement_requests_total",
				Help: "Placement requests partitioned by operation, species and outcome.",
			},
			[]string{"operation", "species", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zoo_placement_duration_seconds",
				Help:    "Time taken to evaluate a placement request.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
			},
			[]string{"operation"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register evaluation metrics: %w", err)
	}
	return m, nil
}

// Observe records one service operation.
func (m *EvaluationMetrics) Observe(_ context.Context, operation, species, outcome string, duration time.Duration) {
	m.Requests.WithLabelValues(operation, species, outcome).Inc()
	m.Duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Describe implements prometheus.Collector.
func (m *EvaluationMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.Requests.Describe(ch)
	m.Duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *EvaluationMetrics) Collect(ch chan<- prometheus.Metric) {
	m.Requests.Collect(ch)
	m.Duration.Collect(ch)
}

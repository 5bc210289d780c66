package core

import (
	"context"
	"time"
)

// Clock abstracts time for deterministic duration measurement in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// MetricsRecorder receives one observation per service operation.
// Outcome is "viable" on success or the error kind otherwise.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation, species, outcome string, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, string, string, time.Duration) {}

package core

import (
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ServiceOption customises a Service at construction.
type ServiceOption func(*Service)

// WithLogger sets the structured logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. Nil keeps the no-op recorder.
func WithMetrics(metrics MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithClock overrides the clock used to time operations.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRulesEngine replaces the default feasibility rules.
func WithRulesEngine(engine *RulesEngine) ServiceOption {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithResultCache memoises placement results for ttl. A non-positive ttl disables caching.
func WithResultCache(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

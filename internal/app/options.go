package app

import (
	"github.com/arenalab/duelrank/internal/domain/scheduler"
	"github.com/arenalab/duelrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithKFactor sets the rating update step size.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithInitialRating sets the score assigned to items on first load.
func WithInitialRating(r float64) Option {
	return func(s *Service) {
		if r > 0 {
			s.initialRating = r
		}
	}
}

// WithDefaultStrategy sets the strategy assigned to new sessions.
func WithDefaultStrategy(strategy scheduler.Strategy) Option {
	return func(s *Service) {
		if strategy != "" {
			s.defaultStrategy = strategy
		}
	}
}

// WithScheduler sets a custom scheduler, used by tests for seeded
// randomness.
func WithScheduler(sched *scheduler.Scheduler) Option {
	return func(s *Service) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

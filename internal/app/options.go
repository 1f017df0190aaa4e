package service

import (
	"github.com/okian/medalcast/internal/adapters/dataset"
	"github.com/okian/medalcast/internal/adapters/worker"
	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/smoothing"
	"github.com/okian/medalcast/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the dataset the history index is built from.
func WithSource(src dataset.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithModels sets the artifact provider used by the model tier.
func WithModels(m Models) Option {
	return func(s *Service) {
		s.models = m
	}
}

// WithNormalizer sets the country identity normalizer.
func WithNormalizer(n *identity.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithDefaultStrategy sets the smoothing strategy used when a request names none.
func WithDefaultStrategy(st smoothing.Strategy) Option {
	return func(s *Service) {
		if st != "" {
			s.defaultStrategy = st
		}
	}
}

// WithWindow sets the moving-average window.
func WithWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithAlpha sets the exponential smoothing factor, in (0, 1].
func WithAlpha(a float64) Option {
	return func(s *Service) {
		if a > 0 && a <= 1 {
			s.alpha = a
		}
	}
}

// WithHosts sets the year -> host country table.
func WithHosts(hosts map[int]string) Option {
	return func(s *Service) {
		s.hosts = hosts
	}
}

// WithDefaultYear sets the forecast target used when a request omits it.
func WithDefaultYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.defaultYear = year
		}
	}
}

// WithPool sets the pool batch operations fan out on.
func WithPool(p *worker.Pool) Option {
	return func(s *Service) {
		if p != nil {
			s.pool = p
		}
	}
}

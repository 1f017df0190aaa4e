package worker

import "github.com/okian/medalcast/pkg/logger"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers bounds the number of items processed concurrently.
// Non-positive values keep the default of runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

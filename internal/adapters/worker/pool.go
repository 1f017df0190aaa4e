// Package worker fans batch forecasts out over a bounded set of goroutines.
package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/okian/medalcast/pkg/logger"
)

// Pool holds the concurrency settings shared by batch operations. It keeps
// no goroutines between calls.
type Pool struct {
	workers int
	logger  logger.Logger
}

// NewPool creates a Pool.
func NewPool(opts ...Option) *Pool {
	p := &Pool{workers: runtime.NumCPU(), logger: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the concurrency bound.
func (p *Pool) Workers() int { return p.workers }

// Map applies fn to every item and returns the results in input order.
// At most p.Workers() calls run at once. The first error cancels the
// remaining items and is returned; so is cancellation of ctx.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out, nil
	}

	n := p.workers
	if n > len(items) {
		n = len(items)
	}
	jobs := make(chan int, n)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < n; w++ {
		g.Go(func() error {
			for i := range jobs {
				r, err := fn(gctx, items[i])
				if err != nil {
					return err
				}
				out[i] = r
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for i := range items {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		p.logger.Debug(ctx, "batch aborted", logger.Int("items", len(items)), logger.Error(err))
		return nil, err
	}
	return out, nil
}

package cache

const defaultCapacity = 16

type settings struct {
	capacity int
	metrics  bool
}

// Option configures a Cache.
type Option func(*settings)

// WithCapacity bounds the number of entries. The oldest insertion is evicted
// first. Non-positive values keep the default.
func WithCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithMetrics reports hits, misses, load latency and size on the artifact
// cache series.
func WithMetrics() Option {
	return func(s *settings) { s.metrics = true }
}

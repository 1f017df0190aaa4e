// Package cache provides a bounded, load-once cache used to keep trained
// artifacts in memory.
//
// Concurrent callers that miss on the same key share a single in-flight load.
// Only successful loads are stored, so a missing artifact is looked up again
// on the next request.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/medalcast/pkg/metrics"
)

// Loader produces the value for a missing key.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	order []K    // insertion order, oldest first
	gen   uint64 // bumped by Invalidate and Purge; stale loads are not stored

	capacity int
	metrics  bool
	group    singleflight.Group
}

// New creates an empty cache.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	s := settings{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&s)
	}
	return &Cache[K, V]{
		items:    make(map[K]V, s.capacity),
		capacity: s.capacity,
		metrics:  s.metrics,
	}
}

// Get returns a cached value without loading.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// GetOrLoad returns the cached value for key, calling load at most once per
// key across concurrent callers. A cancelled ctx abandons the wait but not the
// shared load.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, load Loader[V]) (V, error) {
	var zero V
	if load == nil {
		return zero, ErrNilLoader
	}
	if v, ok := c.Get(key); ok {
		c.hit()
		return v, nil
	}

	gen := c.generation()
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprintf("%d/%v", gen, key), func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		c.miss()
		start := time.Now()
		v, err := load(loadCtx)
		if c.metrics {
			metrics.RecordArtifactLoad(float64(time.Since(start).Nanoseconds()) / 1e6)
		}
		if err != nil {
			return nil, err
		}
		c.store(gen, key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Val.(V)
		if !ok {
			return zero, nil
		}
		return v, nil
	}
}

// Invalidate drops key.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.updateSize()
}

// Purge drops every entry. Loads already in flight finish for their callers
// but are not stored.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = make(map[K]V, c.capacity)
	c.order = c.order[:0]
	c.updateSize()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// store writes v unless the cache was invalidated after gen was read.
func (c *Cache[K, V]) store(gen uint64, key K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if _, ok := c.items[key]; !ok {
		for len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
		c.order = append(c.order, key)
	}
	c.items[key] = v
	c.updateSize()
}

// updateSize must be called with mu held.
func (c *Cache[K, V]) updateSize() {
	if c.metrics {
		metrics.UpdateArtifactCacheEntries(len(c.items))
	}
}

func (c *Cache[K, V]) hit() {
	if c.metrics {
		metrics.RecordArtifactCacheHit()
	}
}

func (c *Cache[K, V]) miss() {
	if c.metrics {
		metrics.RecordArtifactCacheMiss()
	}
}

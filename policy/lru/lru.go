// Package lru implements the least-recently-used policy layer. It is the
// access-ordered layer with a stricter notion of "use": every touch —
// lookup hit, get-or-create of an existing key, overwrite — refreshes the
// entry's recency, and the engine keeps the creation time alongside so a
// TTL layer can distinguish age from staleness.
package lru

import (
	"github.com/IvanBrykalov/ordercache/cache"
)

// Options configures an LRU cache. Capacity must be > 0.
type Options[V any] struct {
	Capacity          int
	Clock             cache.Clock // nil => wall clock
	OnEvict           func(key uint64, v V, reason cache.EvictReason)
	AcceptReplacement func(newMetric, minMetric uint64) bool
	Metrics           cache.Metrics
}

// Cache evicts the least recently touched entry when full.
type Cache[V any] struct {
	*cache.Cache[V]
	clock cache.Clock
}

// New constructs an LRU cache.
// It panics if opt.Capacity <= 0.
func New[V any](opt Options[V]) *Cache[V] {
	clk := opt.Clock
	if clk == nil {
		clk = cache.WallClock{}
	}
	eng := cache.New[V](cache.Options[V]{
		Capacity:          opt.Capacity,
		OnEvict:           opt.OnEvict,
		AcceptReplacement: opt.AcceptReplacement,
		Metrics:           opt.Metrics,
	})
	return &Cache[V]{Cache: eng, clock: clk}
}

func (c *Cache[V]) now() uint64 { return uint64(c.clock.NowUnix()) }

// Get returns the value for key, refreshing its recency on a hit.
func (c *Cache[V]) Get(key uint64) (*V, bool) {
	v, ok := c.Cache.Get(key)
	if ok {
		c.Cache.UpdateMetric(key, c.now())
	}
	return v, ok
}

// Create returns a value reference for key, creating the entry if absent.
// Nil only when admission rejects.
func (c *Cache[V]) Create(key uint64) *V {
	v, _ := c.GetOrCreate(key)
	return v
}

// GetOrCreate returns the entry for key, creating it if absent. Finding
// an existing entry counts as a touch and refreshes its recency.
func (c *Cache[V]) GetOrCreate(key uint64) (v *V, existed bool) {
	now := c.now()
	v, existed = c.Cache.GetOrCreate(key, now)
	if existed {
		c.Cache.UpdateMetric(key, now)
	}
	return v, existed
}

// Set stores v under key; both inserts and overwrites count as a touch.
func (c *Cache[V]) Set(key uint64, v V) bool {
	return c.Cache.Set(key, c.now(), v)
}

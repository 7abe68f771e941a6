// Package access implements the access-ordered policy layer: entries are
// stamped with the wall-clock time (unix seconds) at creation, a hit
// refreshes the stamp, and the entry untouched for longest is evicted
// first when the cache is full.
package access

import (
	"github.com/IvanBrykalov/ordercache/cache"
)

// Options configures an access-ordered cache. Capacity must be > 0;
// everything else defaults like the engine's Options.
type Options[V any] struct {
	Capacity          int
	Clock             cache.Clock // nil => wall clock
	OnEvict           func(key uint64, v V, reason cache.EvictReason)
	AcceptReplacement func(newMetric, minMetric uint64) bool
	Metrics           cache.Metrics
}

// Cache orders entries by last access time. The engine's key-addressed
// operations (Remove, Clear, Exists, stats, iteration) are promoted
// unchanged; Get/Create/Set supply the time-based metric.
type Cache[V any] struct {
	*cache.Cache[V]
	clock cache.Clock
}

// New constructs an access-ordered cache.
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

// Get returns the value for key and refreshes its access time on a hit.
func (c *Cache[V]) Get(key uint64) (*V, bool) {
	v, ok := c.Cache.Get(key)
	if ok {
		c.Cache.UpdateMetric(key, c.now())
	}
	return v, ok
}

// Create returns a value reference for key, creating the entry stamped
// with the current time if absent. Nil only when admission rejects.
func (c *Cache[V]) Create(key uint64) *V {
	return c.Cache.Create(key, c.now())
}

// GetOrCreate returns the entry for key, creating it if absent.
// An existing entry's access time is left as is; only a Get hit counts
// as an access for this layer.
func (c *Cache[V]) GetOrCreate(key uint64) (v *V, existed bool) {
	return c.Cache.GetOrCreate(key, c.now())
}

// Set stores v under key, stamping the entry with the current time.
func (c *Cache[V]) Set(key uint64, v V) bool {
	return c.Cache.Set(key, c.now(), v)
}

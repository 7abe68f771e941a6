// Package ttl wraps the LRU layer with lazy time-to-live expiration.
// An entry older than its lifetime is treated as absent: the access that
// finds it stale removes it, counts it as expired, and reports a miss.
// Nothing expires in the background; a never-touched stale entry simply
// waits to be displaced or looked up.
//
// Empty values can be given a shorter lifetime (EmptyLifetime) than
// populated ones, which is useful for negative caching: remember "no
// result" briefly, real results longer.
package ttl

import (
	"github.com/IvanBrykalov/ordercache/cache"
	"github.com/IvanBrykalov/ordercache/policy/lru"
)

// Options configures a TTL cache.
// Capacity and Lifetime must be > 0; New panics otherwise.
type Options[V any] struct {
	Capacity int

	// Lifetime is the maximum entry age in seconds, measured from
	// creation (overwrites do not reset it).
	Lifetime int64

	// EmptyLifetime applies instead of Lifetime when Size reports a
	// zero-length value. Non-positive means Lifetime.
	EmptyLifetime int64

	// Size reports the logical length of a value. Nil means no entry is
	// ever considered empty and EmptyLifetime is unused.
	Size func(v V) int

	Clock             cache.Clock // nil => wall clock
	OnEvict           func(key uint64, v V, reason cache.EvictReason)
	AcceptReplacement func(newMetric, minMetric uint64) bool
	Metrics           cache.Metrics
}

// Cache is an LRU cache whose entries expire Lifetime seconds after
// creation. Expiry is lazy and happens on Get/Create/Set; Exists only
// reports staleness without removing.
type Cache[V any] struct {
	*lru.Cache[V]
	lifetime      int64
	emptyLifetime int64
	size          func(v V) int
	clock         cache.Clock
}

// New constructs a TTL cache.
// It panics if opt.Capacity <= 0 or opt.Lifetime <= 0.
func New[V any](opt Options[V]) *Cache[V] {
	if opt.Lifetime <= 0 {
		panic("ttl: Lifetime must be > 0")
	}
	empty := opt.EmptyLifetime
	if empty <= 0 {
		empty = opt.Lifetime
	}
	clk := opt.Clock
	if clk == nil {
		clk = cache.WallClock{}
	}
	inner := lru.New[V](lru.Options[V]{
		Capacity:          opt.Capacity,
		Clock:             clk,
		OnEvict:           opt.OnEvict,
		AcceptReplacement: opt.AcceptReplacement,
		Metrics:           opt.Metrics,
	})
	return &Cache[V]{
		Cache:         inner,
		lifetime:      opt.Lifetime,
		emptyLifetime: empty,
		size:          opt.Size,
		clock:         clk,
	}
}

// Lifetime returns the configured lifetime in seconds.
func (c *Cache[V]) Lifetime() int64 { return c.lifetime }

// EmptyLifetime returns the lifetime applied to zero-length values.
func (c *Cache[V]) EmptyLifetime() int64 { return c.emptyLifetime }

// stale reports whether the live entry for key has outlived its lifetime.
// Absent keys are not stale.
func (c *Cache[V]) stale(key uint64) bool {
	v, birth, ok := c.Peek(key)
	if !ok {
		return false
	}
	life := c.lifetime
	if c.size != nil && c.size(*v) == 0 {
		life = c.emptyLifetime
	}
	return c.clock.NowUnix()-int64(birth) >= life
}

// Get returns the value for key, expiring it first if it has aged out.
// A fresh hit refreshes recency like the underlying LRU.
func (c *Cache[V]) Get(key uint64) (*V, bool) {
	if c.stale(key) {
		c.Expire(key)
		return nil, false
	}
	return c.Cache.Get(key)
}

// Exists reports whether key is live and, if so, whether it has expired.
// Unlike Get it removes nothing and touches no counters, so it can probe
// without disturbing statistics.
func (c *Cache[V]) Exists(key uint64) (ok, expired bool) {
	if !c.Cache.Exists(key) {
		return false, false
	}
	if c.stale(key) {
		return false, true
	}
	return true, false
}

// Create returns a value reference for key. A stale entry is expired
// first, so the caller always gets a fresh one with a new creation time.
func (c *Cache[V]) Create(key uint64) *V {
	v, _ := c.GetOrCreate(key)
	return v
}

// GetOrCreate returns the entry for key, recreating it if it has expired.
func (c *Cache[V]) GetOrCreate(key uint64) (v *V, existed bool) {
	if c.stale(key) {
		c.Expire(key)
	}
	return c.Cache.GetOrCreate(key)
}

// Set stores v under key. Overwriting a fresh entry keeps its creation
// time; a stale entry is expired first and recreated.
func (c *Cache[V]) Set(key uint64, v V) bool {
	if c.stale(key) {
		c.Expire(key)
	}
	return c.Cache.Set(key, v)
}

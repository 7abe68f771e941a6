package cache

import (
	"github.com/IvanBrykalov/ordercache/internal/ordindex"
)

// Cache is a bounded, metric-ordered cache keyed by 64-bit hashes.
//
// Storage is a dense, preallocated slot array; a hash index maps keys to
// slots in O(1) and a balanced tree over (metric, slot) keys finds the
// eviction candidate in O(log n). Removal swap-compacts: the last live
// slot fills the hole, so the live range stays contiguous.
//
// The zero metric is ordinary; lower metrics are evicted first. Policy
// layers in policy/... derive the metric from priorities or access times.
//
// Not safe for concurrent use. See doc.go for the reference-validity rules.
type Cache[V any] struct {
	slots []entry[V]
	count int
	tree  *ordindex.Tree
	idx   map[uint64]uint32

	opt Options[V]

	lookups uint64
	misses  uint64
	expired uint64
}

// New constructs a cache with the provided Options.
// It panics if opt.Capacity <= 0; every other field has a usable default.
func New[V any](opt Options[V]) *Cache[V] {
	if opt.Capacity <= 0 {
		panic("Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	return &Cache[V]{
		slots: make([]entry[V], opt.Capacity),
		tree:  ordindex.New(opt.Capacity),
		idx:   make(map[uint64]uint32, opt.Capacity),
		opt:   opt,
	}
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int { return c.count }

// Cap returns the fixed capacity the cache was built with.
func (c *Cache[V]) Cap() int { return len(c.slots) }

// Get returns a reference to the value for key, or nil if absent.
// It counts a lookup or a miss but does not reorder the entry; recency
// bookkeeping belongs to the policy layers.
func (c *Cache[V]) Get(key uint64) (*V, bool) {
	slot, ok := c.idx[key]
	if !ok {
		c.misses++
		c.opt.Metrics.Miss()
		return nil, false
	}
	c.lookups++
	c.opt.Metrics.Hit()
	return &c.slots[slot].val, true
}

// Peek returns the value reference and creation metric for key without
// touching any counter or ordering. Policy layers use it to inspect an
// entry before deciding whether the access should count.
func (c *Cache[V]) Peek(key uint64) (v *V, createMetric uint64, ok bool) {
	slot, found := c.idx[key]
	if !found {
		return nil, 0, false
	}
	e := &c.slots[slot]
	return &e.val, e.birth, true
}

// Exists reports whether key is live. No counters are touched.
func (c *Cache[V]) Exists(key uint64) bool {
	_, ok := c.idx[key]
	return ok
}

// Metric returns the current ordering metric for key.
func (c *Cache[V]) Metric(key uint64) (uint64, bool) {
	slot, ok := c.idx[key]
	if !ok {
		return 0, false
	}
	return c.slots[slot].metric, true
}

// CreatedAt returns the metric recorded when key was created.
// For time-based policies this is the creation time in unix seconds.
func (c *Cache[V]) CreatedAt(key uint64) (uint64, bool) {
	slot, ok := c.idx[key]
	if !ok {
		return 0, false
	}
	return c.slots[slot].birth, true
}

// GetOrCreate returns the entry for key, creating it with the given
// metric if absent. existed reports whether the entry was already live.
//
// When the cache is full the metric-minimum entry is displaced, except
// that an incoming metric below the resident minimum is first offered to
// Options.AcceptReplacement; if that rejects, GetOrCreate returns
// (nil, false) and nothing changes.
//
// A freshly created entry holds the zero value of V; the caller writes
// through the returned reference.
func (c *Cache[V]) GetOrCreate(key, metric uint64) (v *V, existed bool) {
	if slot, ok := c.idx[key]; ok {
		return &c.slots[slot].val, true
	}
	return c.create(key, metric), false
}

// Create returns a value reference for key, creating the entry if needed.
// It returns nil only when a full cache rejects the insertion through
// AcceptReplacement.
func (c *Cache[V]) Create(key, metric uint64) *V {
	v, _ := c.GetOrCreate(key, metric)
	return v
}

// Set stores v under key with the given metric, overwriting any previous
// value and metric. It reports whether the write was admitted.
func (c *Cache[V]) Set(key, metric uint64, v V) bool {
	ref, existed := c.GetOrCreate(key, metric)
	if ref == nil {
		return false
	}
	*ref = v
	if existed {
		c.UpdateMetric(key, metric)
	}
	return true
}

// create inserts a new entry, evicting the metric-minimum one first if
// the cache is full. Returns nil when the insertion is rejected.
func (c *Cache[V]) create(key, metric uint64) *V {
	if c.count == len(c.slots) {
		min, ok := c.tree.Min()
		if !ok {
			panic("ordercache: full cache with empty ordered index")
		}
		if metric < min.Metric {
			if accept := c.opt.AcceptReplacement; accept != nil && !accept(metric, min.Metric) {
				return nil
			}
		}
		c.evictSlot(min.Slot, EvictCapacity)
	}

	slot := uint32(c.count)
	e := &c.slots[slot]
	var zero V
	e.key, e.metric, e.birth, e.val = key, metric, metric, zero
	c.tree.Insert(ordindex.Key{Metric: metric, Slot: slot})
	c.idx[key] = slot
	c.count++
	c.opt.Metrics.Size(c.count)
	return &e.val
}

// UpdateMetric reorders key under newMetric. A no-op when the metric is
// unchanged, which keeps repeated touches within the same metric value
// from paying for a tree relocation. Reports whether key is live.
func (c *Cache[V]) UpdateMetric(key, newMetric uint64) bool {
	slot, ok := c.idx[key]
	if !ok {
		return false
	}
	e := &c.slots[slot]
	if e.metric == newMetric {
		return true
	}
	if !c.tree.Delete(ordindex.Key{Metric: e.metric, Slot: slot}) {
		panic("ordercache: ordered index out of sync on update")
	}
	e.metric = newMetric
	c.tree.Insert(ordindex.Key{Metric: newMetric, Slot: slot})
	return true
}

// Remove deletes key if present, invoking the eviction hook with the
// outgoing value. Returns true if the entry existed.
func (c *Cache[V]) Remove(key uint64) bool {
	slot, ok := c.idx[key]
	if !ok {
		return false
	}
	c.evictSlot(slot, EvictRemove)
	return true
}

// Expire deletes key on behalf of a TTL layer. The access that found the
// entry stale is recorded as a miss, and the expiry is counted.
func (c *Cache[V]) Expire(key uint64) bool {
	slot, ok := c.idx[key]
	if !ok {
		return false
	}
	c.expired++
	c.misses++
	c.opt.Metrics.Miss()
	c.evictSlot(slot, EvictTTL)
	return true
}

// Clear drops every entry without invoking per-item eviction hooks.
// Statistics are kept; use ResetStats to zero them.
func (c *Cache[V]) Clear() {
	for i := 0; i < c.count; i++ {
		c.slots[i] = entry[V]{}
	}
	c.count = 0
	c.tree.Reset()
	clear(c.idx)
	c.opt.Metrics.Size(0)
}

// Lookups returns the number of successful Get calls since the last reset.
func (c *Cache[V]) Lookups() uint64 { return c.lookups }

// Misses returns the number of failed or expired accesses since the last reset.
func (c *Cache[V]) Misses() uint64 { return c.misses }

// Expired returns the number of entries removed by TTL expiry since the last reset.
func (c *Cache[V]) Expired() uint64 { return c.expired }

// ResetStats zeroes the lookup, miss, and expiry counters.
func (c *Cache[V]) ResetStats() {
	c.lookups, c.misses, c.expired = 0, 0, 0
}

package cache

import "github.com/IvanBrykalov/ordercache/internal/ordindex"

// First returns the entry with the lowest metric — the next eviction
// candidate. Ties in metric resolve to the lowest slot index.
func (c *Cache[V]) First() (key uint64, v *V, metric uint64, ok bool) {
	k, found := c.tree.Min()
	if !found {
		return 0, nil, 0, false
	}
	e := &c.slots[k.Slot]
	return e.key, &e.val, e.metric, true
}

// Last returns the entry with the highest metric.
func (c *Cache[V]) Last() (key uint64, v *V, metric uint64, ok bool) {
	k, found := c.tree.Max()
	if !found {
		return 0, nil, 0, false
	}
	e := &c.slots[k.Slot]
	return e.key, &e.val, e.metric, true
}

// Ascend visits live entries in ascending metric order until fn returns
// false. Writing through the yielded value reference is fine; mutating
// the cache structurally (create/remove/clear) during iteration is not.
func (c *Cache[V]) Ascend(fn func(key uint64, v *V, metric uint64) bool) {
	c.tree.Ascend(func(k ordindex.Key) bool {
		e := &c.slots[k.Slot]
		return fn(e.key, &e.val, e.metric)
	})
}

// Descend visits live entries in descending metric order until fn
// returns false. The same mutation rules as Ascend apply.
func (c *Cache[V]) Descend(fn func(key uint64, v *V, metric uint64) bool) {
	c.tree.Descend(func(k ordindex.Key) bool {
		e := &c.slots[k.Slot]
		return fn(e.key, &e.val, e.metric)
	})
}

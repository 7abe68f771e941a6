package cache

import (
	"fmt"

	"github.com/IvanBrykalov/ordercache/internal/ordindex"
)

// entry is one slot of the dense store. Slots [0, count) are live; the
// rest are don't-care. An entry is addressed through the key index and
// the ordered index, both of which track its current slot.
type entry[V any] struct {
	key    uint64
	metric uint64
	birth  uint64 // metric at creation time; read by TTL layers
	val    V
}

// releaseSlot removes the live entry at slot from both indices and keeps
// the store dense: unless slot is the last live one, the last entry is
// copied into the hole and its index keys are fixed up before the count
// drops. The vacated slot is zeroed so it cannot pin caller memory.
func (c *Cache[V]) releaseSlot(slot uint32) {
	e := &c.slots[slot]
	if !c.tree.Delete(ordindex.Key{Metric: e.metric, Slot: slot}) {
		panic(fmt.Sprintf("ordercache: ordered index lost slot %d", slot))
	}
	delete(c.idx, e.key)

	last := uint32(c.count - 1)
	if slot != last {
		moved := &c.slots[last]
		if !c.tree.Delete(ordindex.Key{Metric: moved.metric, Slot: last}) {
			panic(fmt.Sprintf("ordercache: ordered index lost slot %d", last))
		}
		c.slots[slot] = *moved
		c.tree.Insert(ordindex.Key{Metric: moved.metric, Slot: slot})
		c.idx[moved.key] = slot
	}
	c.count--
	c.slots[c.count] = entry[V]{}
}

// evictSlot copies the outgoing key/value, releases the slot, and then
// reports the eviction. The copy is taken first because the callback must
// see the value as it was, not whatever the compaction moved in.
func (c *Cache[V]) evictSlot(slot uint32, reason EvictReason) {
	e := &c.slots[slot]
	key, val := e.key, e.val
	c.releaseSlot(slot)
	c.opt.Metrics.Evict(reason)
	c.opt.Metrics.Size(c.count)
	if cb := c.opt.OnEvict; cb != nil {
		cb(key, val, reason)
	}
}

// checkConsistency verifies the cross-index invariants. It is O(n log n)
// and exists for tests; the engine itself asserts the cheap subset inline.
func (c *Cache[V]) checkConsistency() error {
	if c.count < 0 || c.count > len(c.slots) {
		return fmt.Errorf("count %d out of range [0, %d]", c.count, len(c.slots))
	}
	if len(c.idx) != c.count {
		return fmt.Errorf("key index holds %d entries, store holds %d", len(c.idx), c.count)
	}
	if c.tree.Len() != c.count {
		return fmt.Errorf("ordered index holds %d entries, store holds %d", c.tree.Len(), c.count)
	}
	for i := 0; i < c.count; i++ {
		e := &c.slots[i]
		slot, ok := c.idx[e.key]
		if !ok {
			return fmt.Errorf("slot %d key %#x missing from key index", i, e.key)
		}
		if slot != uint32(i) {
			return fmt.Errorf("slot %d key %#x mapped to slot %d", i, e.key, slot)
		}
		if !c.tree.Contains(ordindex.Key{Metric: e.metric, Slot: uint32(i)}) {
			return fmt.Errorf("slot %d (metric %d) missing from ordered index", i, e.metric)
		}
	}
	return nil
}

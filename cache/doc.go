// Package cache provides a bounded, order-aware in-memory cache: a fixed
// number of key/value slots indexed both by key (hash map, O(1)) and by an
// ordering metric (balanced tree, O(log n)), so that "find and evict the
// least favorable entry" stays cheap at any fill level.
//
// Design
//
//   - Storage: a dense array of exactly Capacity slots, allocated once.
//     Slots [0, Len()) are live. Removal swap-compacts: the last live slot
//     is copied into the hole and both indices are fixed up immediately,
//     so the live range never fragments and relocation is O(1) per removal.
//
//   - Ordering: a red-black tree keyed by the composite (metric, slot)
//     pair. The slot component forces a total order when metrics collide,
//     so which of several equal-metric entries is evicted is deterministic
//     (lowest slot) but otherwise unspecified. First()/Last() and ordered
//     iteration come from the same index.
//
//   - Keys: caller-supplied 64-bit hashes, expected unique among live
//     entries. Package keyhash derives them from strings, byte slices, and
//     integers.
//
//   - Values: any V. Use a fixed-size array type for inline, zero-
//     allocation storage, or []byte for separately owned buffers. Values
//     are always visible to the garbage collector; an entry holds its
//     value alive exactly as long as it is live, and the vacated slot is
//     zeroed on removal.
//
//   - Admission: inserting into a full cache displaces the metric-minimum
//     entry. If the newcomer's metric is below that minimum — it would be
//     the next eviction candidate itself — Options.AcceptReplacement
//     decides; the default lets the newcomer win. "Cache full" is never an
//     error, only an admission outcome.
//
//   - Policies: the engine never reorders on access. The policy packages
//     layer the metric semantics on top: policy/access stamps entries with
//     unix seconds and refreshes on hit, policy/lru refreshes on every
//     touch, policy/ttl wraps the LRU layer with lazy expiry.
//
//   - Callbacks: Options.OnEvict(key, value, reason) runs for every
//     displacement, expiry, and explicit removal, with the outgoing value,
//     before the slot is reused. Clear() skips per-item callbacks.
//
// Basic usage
//
//	c := cache.New[[]byte](cache.Options[[]byte]{Capacity: 1024})
//	v := c.Create(keyhash.Sum64("user:42"), 5 /* priority */)
//	*v = append((*v)[:0], payload...)
//	if v, ok := c.Get(keyhash.Sum64("user:42")); ok {
//	    _ = v // use value
//	}
//
// References and mutation
//
// A *V returned by any operation points into the slot array. It stays
// valid only until the next structural mutation of the same cache — a
// create that evicts, a Remove, an Expire, or Clear — because compaction
// may move entries between slots. Callers that need a value beyond that
// point must copy it out. Writing through a reference yielded by Ascend
// or Descend is allowed; creating or removing entries mid-iteration is not.
//
// Thread-safety & complexity
//
// The engine performs no internal synchronization and individual
// operations are not safely decomposable; concurrent use requires one
// external lock around the whole instance. Every operation is bounded:
// O(log n) for anything touching the ordered index, O(1) for lookups and
// slot compaction. Nothing blocks, suspends, or retries.
package cache

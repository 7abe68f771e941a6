package cache

import "time"

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity — displaced by an insertion into a full cache.
	EvictCapacity EvictReason = iota
	// EvictTTL — expired by a TTL policy layer (lazy eviction on access).
	EvictTTL
	// EvictRemove — removed explicitly by the caller.
	EvictRemove
)

// Clock provides time in unix seconds; useful for deterministic tests.
// Policy layers read it once per operation, so a cheap wall-clock read
// is all that is required.
type Clock interface{ NowUnix() int64 }

// WallClock is the default Clock backed by time.Now.
type WallClock struct{}

// NowUnix returns the current unix time in seconds.
func (WallClock) NowUnix() int64 { return time.Now().Unix() }

// Options configures the engine. Zero values are safe except Capacity,
// which must be positive; defaults are applied in New():
//   - nil Metrics           => NoopMetrics
//   - nil AcceptReplacement => incoming entry always wins
type Options[V any] struct {
	// Capacity is the fixed entry limit. All slots are allocated up front
	// and the cache never grows. New panics if Capacity <= 0.
	Capacity int

	// OnEvict is called with the outgoing key and value whenever an entry
	// is displaced, expired, or removed — before its slot is reused.
	// The value is copied out of the slot prior to the callback.
	OnEvict func(key uint64, v V, reason EvictReason)

	// AcceptReplacement is consulted only when the cache is full and the
	// incoming entry's metric is lower than the resident minimum, i.e. the
	// newcomer would itself be the best eviction candidate. Returning
	// false rejects the insertion with no mutation. Nil means the
	// incoming entry always wins.
	AcceptReplacement func(newMetric, minMetric uint64) bool

	// Metrics receives hit/miss/evict/size signals. Nil => NoopMetrics.
	Metrics Metrics
}

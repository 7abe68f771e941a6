package cache

import (
	"testing"
)

// Fuzz a mixed operation stream against a small cache and a naive model.
// Every step re-verifies the cross-index invariants (slot density, index
// agreement, capacity bound), which is where swap-compaction bugs hide.
func FuzzCache_Operations(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 1, 2, 3})
	f.Add([]byte{0x10, 0x21, 0x32, 0x43, 0x04, 0x15})
	f.Add([]byte{0xff, 0x00, 0xff, 0x00, 0x7f, 0x80, 0x01})

	f.Fuzz(func(t *testing.T, ops []byte) {
		const capacity = 8

		c := New[byte](Options[byte]{Capacity: capacity})
		model := map[uint64]byte{}

		for i, b := range ops {
			key := uint64(b & 0x0f)     // small keyspace forces collisions
			metric := uint64(b >> 4)    // 0..15, plenty of ties
			val := byte(i)

			switch b % 4 {
			case 0: // set
				if c.Set(key, metric, val) {
					model[key] = val
				}
			case 1: // remove
				had := c.Remove(key)
				_, expect := model[key]
				if had != expect {
					t.Fatalf("op %d: Remove(%d) = %v, model says %v", i, key, had, expect)
				}
				delete(model, key)
			case 2: // get
				v, ok := c.Get(key)
				want, expect := model[key]
				if ok != expect {
					t.Fatalf("op %d: Get(%d) present=%v, model says %v", i, key, ok, expect)
				}
				if ok && *v != want {
					t.Fatalf("op %d: Get(%d) = %d, model says %d", i, key, *v, want)
				}
			default: // reorder
				c.UpdateMetric(key, metric)
			}

			// The model never evicts, so it can only prove presence for
			// keys the cache also holds; prune model keys the cache
			// displaced to keep the two aligned.
			for k := range model {
				if !c.Exists(k) {
					delete(model, k)
				}
			}

			if c.Len() > capacity || c.Len() < 0 {
				t.Fatalf("op %d: length %d outside [0, %d]", i, c.Len(), capacity)
			}
			if err := c.checkConsistency(); err != nil {
				t.Fatalf("op %d: %v", i, err)
			}
		}
	})
}

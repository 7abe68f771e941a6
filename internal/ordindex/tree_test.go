package ordindex

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkShape verifies the left-leaning red-black invariants plus key
// order: black root, no right-leaning red link, no two reds in a row,
// uniform black height.
func checkShape(t *testing.T, tr *Tree) {
	t.Helper()

	require.False(t, isRed(tr.root), "root must be black")

	count := 0
	var walk func(h *node) int
	walk = func(h *node) int {
		if h == nil {
			return 1
		}
		count++
		require.False(t, isRed(h.right), "right-leaning red link at %v", h.key)
		require.False(t, h.red && isRed(h.left), "two red links in a row at %v", h.key)
		if h.left != nil {
			require.True(t, less(h.left.key, h.key), "order violation at %v", h.key)
		}
		if h.right != nil {
			require.True(t, less(h.key, h.right.key), "order violation at %v", h.key)
		}
		lh, rh := walk(h.left), walk(h.right)
		require.Equal(t, lh, rh, "black height mismatch at %v", h.key)
		if !h.red {
			lh++
		}
		return lh
	}
	walk(tr.root)
	require.Equal(t, tr.len, count, "Len disagrees with node count")
}

func collect(tr *Tree) []Key {
	var out []Key
	tr.Ascend(func(k Key) bool {
		out = append(out, k)
		return true
	})
	return out
}

func TestTree_InsertOrderAndExtremes(t *testing.T) {
	t.Parallel()

	const n = 512
	tr := New(n)
	r := rand.New(rand.NewSource(1))

	want := make([]Key, 0, n)
	for i := 0; i < n; i++ {
		k := Key{Metric: uint64(r.Intn(64)), Slot: uint32(i)}
		tr.Insert(k)
		want = append(want, k)
	}
	sort.Slice(want, func(i, j int) bool { return less(want[i], want[j]) })

	require.Equal(t, n, tr.Len())
	require.Equal(t, want, collect(tr))
	checkShape(t, tr)

	min, ok := tr.Min()
	require.True(t, ok)
	require.Equal(t, want[0], min)

	max, ok := tr.Max()
	require.True(t, ok)
	require.Equal(t, want[n-1], max)
}

func TestTree_TiesOrderedBySlot(t *testing.T) {
	t.Parallel()

	tr := New(8)
	for _, slot := range []uint32{5, 1, 3} {
		tr.Insert(Key{Metric: 7, Slot: slot})
	}

	got := collect(tr)
	require.Equal(t, []Key{{7, 1}, {7, 3}, {7, 5}}, got)

	min, _ := tr.Min()
	require.Equal(t, Key{Metric: 7, Slot: 1}, min, "ties must break toward the lowest slot")
}

func TestTree_DeleteRandomized(t *testing.T) {
	t.Parallel()

	const n = 256
	tr := New(n)
	r := rand.New(rand.NewSource(42))

	live := map[Key]bool{}
	for i := 0; i < n; i++ {
		k := Key{Metric: uint64(r.Intn(32)), Slot: uint32(i)}
		tr.Insert(k)
		live[k] = true
	}

	keys := make([]Key, 0, len(live))
	for k := range live {
		keys = append(keys, k)
	}
	r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	for i, k := range keys {
		require.True(t, tr.Delete(k), "delete %v", k)
		require.False(t, tr.Contains(k))
		require.False(t, tr.Delete(k), "double delete %v must fail", k)
		require.Equal(t, len(keys)-i-1, tr.Len())
		if i%16 == 0 {
			checkShape(t, tr)
		}
	}

	checkShape(t, tr)
	_, ok := tr.Min()
	require.False(t, ok, "Min on an empty tree")
}

// Sequential deletes walk one spine of the tree the whole way down, which
// is exactly where the red-pushing rebalance steps fire; the randomized
// test can miss those paths.
func TestTree_DeleteSequential(t *testing.T) {
	t.Parallel()

	const n = 128
	build := func() *Tree {
		tr := New(n)
		for i := uint32(0); i < n; i++ {
			tr.Insert(Key{Metric: uint64(i), Slot: i})
		}
		return tr
	}

	tr := build()
	for i := uint32(0); i < n; i++ {
		require.True(t, tr.Delete(Key{Metric: uint64(i), Slot: i}))
		checkShape(t, tr)
	}
	require.Equal(t, 0, tr.Len())

	tr = build()
	for i := int(n) - 1; i >= 0; i-- {
		require.True(t, tr.Delete(Key{Metric: uint64(i), Slot: uint32(i)}))
		checkShape(t, tr)
	}
	require.Equal(t, 0, tr.Len())
}

// The node pool must recycle: total churn far beyond capacity, with the
// live set never exceeding it.
func TestTree_PoolRecycles(t *testing.T) {
	t.Parallel()

	const capacity = 16
	tr := New(capacity)

	for round := 0; round < 200; round++ {
		for i := 0; i < capacity; i++ {
			tr.Insert(Key{Metric: uint64(round), Slot: uint32(i)})
		}
		require.Equal(t, capacity, tr.Len())
		for i := 0; i < capacity; i++ {
			require.True(t, tr.Delete(Key{Metric: uint64(round), Slot: uint32(i)}))
		}
		require.Equal(t, 0, tr.Len())
	}
	checkShape(t, tr)
}

func TestTree_InsertBeyondCapacityPanics(t *testing.T) {
	t.Parallel()

	tr := New(2)
	tr.Insert(Key{Metric: 1, Slot: 0})
	tr.Insert(Key{Metric: 2, Slot: 1})
	require.Panics(t, func() { tr.Insert(Key{Metric: 3, Slot: 2}) })
}

func TestTree_Reset(t *testing.T) {
	t.Parallel()

	tr := New(8)
	for i := uint32(0); i < 8; i++ {
		tr.Insert(Key{Metric: uint64(i), Slot: i})
	}

	tr.Reset()
	require.Equal(t, 0, tr.Len())
	require.Empty(t, collect(tr))

	// Full capacity is available again after Reset.
	for i := uint32(0); i < 8; i++ {
		tr.Insert(Key{Metric: uint64(i), Slot: i})
	}
	require.Equal(t, 8, tr.Len())
	checkShape(t, tr)
}

func TestTree_DescendEarlyStop(t *testing.T) {
	t.Parallel()

	tr := New(8)
	for i := uint32(0); i < 8; i++ {
		tr.Insert(Key{Metric: uint64(i * 10), Slot: i})
	}

	var got []uint64
	tr.Descend(func(k Key) bool {
		got = append(got, k.Metric)
		return len(got) < 3
	})
	require.Equal(t, []uint64{70, 60, 50}, got)
}

// Package ordindex implements the ordered eviction index: a left-leaning
// red-black tree over composite (metric, slot) keys.
//
// The metric alone is not unique (many entries may share a priority or a
// timestamp), so the slot index is folded into the key to force a total
// order. Ties in metric are therefore broken by slot, deterministically.
//
// Capacity is fixed at construction: all nodes are allocated once and
// recycled through a free list. The tree never grows past the capacity it
// was built with, and it never allocates on the hot path.
//
// Concurrency: none. The tree is owned by a single cache instance and is
// mutated only under that instance's (external) synchronization.
package ordindex

// Key orders entries for eviction: ascending by Metric, ties by Slot.
type Key struct {
	Metric uint64
	Slot   uint32
}

func less(a, b Key) bool {
	if a.Metric != b.Metric {
		return a.Metric < b.Metric
	}
	return a.Slot < b.Slot
}

type node struct {
	key   Key
	left  *node
	right *node
	red   bool
}

// Tree is a left-leaning red-black tree with a fixed node pool.
// Keys must be unique; the owning cache guarantees this because a live
// slot index appears in exactly one key.
type Tree struct {
	root  *node
	nodes []node // backing storage, allocated once
	free  *node  // free list threaded through .right
	len   int
}

// New returns a tree with room for exactly capacity keys.
func New(capacity int) *Tree {
	if capacity <= 0 {
		panic("ordindex: capacity must be > 0")
	}
	t := &Tree{nodes: make([]node, capacity)}
	t.buildFreeList()
	return t
}

func (t *Tree) buildFreeList() {
	t.free = nil
	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := &t.nodes[i]
		n.left, n.red = nil, false
		n.right = t.free
		t.free = n
	}
}

func (t *Tree) alloc(k Key) *node {
	n := t.free
	if n == nil {
		// The cache inserts at most one key per slot; running out of
		// nodes means the index and slot store have diverged.
		panic("ordindex: node pool exhausted")
	}
	t.free = n.right
	n.key = k
	n.left, n.right = nil, nil
	n.red = true
	return n
}

func (t *Tree) release(n *node) {
	n.left = nil
	n.right = t.free
	n.red = false
	t.free = n
}

// Len returns the number of keys in the tree.
func (t *Tree) Len() int { return t.len }

// Reset empties the tree without per-key bookkeeping.
func (t *Tree) Reset() {
	t.root = nil
	t.len = 0
	t.buildFreeList()
}

// Contains reports whether k is present.
func (t *Tree) Contains(k Key) bool {
	h := t.root
	for h != nil {
		switch {
		case less(k, h.key):
			h = h.left
		case less(h.key, k):
			h = h.right
		default:
			return true
		}
	}
	return false
}

// Min returns the smallest key (the eviction candidate).
func (t *Tree) Min() (Key, bool) {
	if t.root == nil {
		return Key{}, false
	}
	h := t.root
	for h.left != nil {
		h = h.left
	}
	return h.key, true
}

// Max returns the largest key.
func (t *Tree) Max() (Key, bool) {
	if t.root == nil {
		return Key{}, false
	}
	h := t.root
	for h.right != nil {
		h = h.right
	}
	return h.key, true
}

// Insert adds k. The caller must not insert a key that is already present.
func (t *Tree) Insert(k Key) {
	t.root = t.insert(t.root, k)
	t.root.red = false
	t.len++
}

func (t *Tree) insert(h *node, k Key) *node {
	if h == nil {
		return t.alloc(k)
	}
	if less(k, h.key) {
		h.left = t.insert(h.left, k)
	} else {
		h.right = t.insert(h.right, k)
	}
	return fixUp(h)
}

// Delete removes k and reports whether it was present.
func (t *Tree) Delete(k Key) bool {
	if !t.Contains(k) {
		return false
	}
	t.root = t.delete(t.root, k)
	if t.root != nil {
		t.root.red = false
	}
	t.len--
	return true
}

// delete is the standard LLRB deletion (Sedgewick). The key is known to be
// present, which keeps the nil-checks on the descent implicit.
func (t *Tree) delete(h *node, k Key) *node {
	if less(k, h.key) {
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(h)
		}
		h.left = t.delete(h.left, k)
	} else {
		if isRed(h.left) {
			h = rotateRight(h)
		}
		if k == h.key && h.right == nil {
			t.release(h)
			return nil
		}
		if !isRed(h.right) && !isRed(h.right.left) {
			h = moveRedRight(h)
		}
		if k == h.key {
			m := h.right
			for m.left != nil {
				m = m.left
			}
			h.key = m.key
			h.right = t.deleteMin(h.right)
		} else {
			h.right = t.delete(h.right, k)
		}
	}
	return fixUp(h)
}

func (t *Tree) deleteMin(h *node) *node {
	if h.left == nil {
		t.release(h)
		return nil
	}
	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(h)
	}
	h.left = t.deleteMin(h.left)
	return fixUp(h)
}

// Ascend visits keys in ascending order until fn returns false.
func (t *Tree) Ascend(fn func(Key) bool) {
	ascend(t.root, fn)
}

func ascend(h *node, fn func(Key) bool) bool {
	if h == nil {
		return true
	}
	if !ascend(h.left, fn) {
		return false
	}
	if !fn(h.key) {
		return false
	}
	return ascend(h.right, fn)
}

// Descend visits keys in descending order until fn returns false.
func (t *Tree) Descend(fn func(Key) bool) {
	descend(t.root, fn)
}

func descend(h *node, fn func(Key) bool) bool {
	if h == nil {
		return true
	}
	if !descend(h.right, fn) {
		return false
	}
	if !fn(h.key) {
		return false
	}
	return descend(h.left, fn)
}

// ---- red-black plumbing ----

func isRed(h *node) bool { return h != nil && h.red }

func rotateLeft(h *node) *node {
	x := h.right
	h.right = x.left
	x.left = h
	x.red = h.red
	h.red = true
	return x
}

func rotateRight(h *node) *node {
	x := h.left
	h.left = x.right
	x.right = h
	x.red = h.red
	h.red = true
	return x
}

func flipColors(h *node) {
	h.red = !h.red
	h.left.red = !h.left.red
	h.right.red = !h.right.red
}

// moveRedLeft makes h.left or one of its children red, assuming h is red
// and both h.left and h.left.left are black.
func moveRedLeft(h *node) *node {
	flipColors(h)
	if isRed(h.right.left) {
		h.right = rotateRight(h.right)
		h = rotateLeft(h)
		flipColors(h)
	}
	return h
}

// moveRedRight makes h.right or one of its children red, assuming h is red
// and both h.right and h.right.left are black.
func moveRedRight(h *node) *node {
	flipColors(h)
	if isRed(h.left.left) {
		h = rotateRight(h)
		flipColors(h)
	}
	return h
}

func fixUp(h *node) *node {
	if isRed(h.right) && !isRed(h.left) {
		h = rotateLeft(h)
	}
	if isRed(h.left) && isRed(h.left.left) {
		h = rotateRight(h)
	}
	if isRed(h.left) && isRed(h.right) {
		flipColors(h)
	}
	return h
}

// Package art implements an in-memory adaptive radix tree keyed by
// fixed 6-byte big-endian keys and valued by uint64, with ordered
// iteration, shrink-to-fit, and a zero-copy frozen-view serialization
// format.
package art

// Tree is a mutable adaptive radix tree. The zero value is an empty
// tree, ready to use.
//
// Grounded on the teacher's Tree in tree.go; the olock field and every
// method's optimistic-lock-coupling retry loop are dropped (spec.md
// §5 excludes concurrent mutation as a non-goal), leaving a plain
// single-threaded facade over insertNode/eraseNode/findHandle.
type Tree struct {
	root node
	p    *pools
}

// NewPooledTree returns an empty tree whose node allocations are
// recycled through a sync.Pool-backed allocator (see pools.go and
// internal/alloc), for callers that churn inserts/erases heavily
// enough for GC pressure to matter. The zero Tree value remains the
// simpler, equally correct default.
func NewPooledTree() *Tree {
	return &Tree{p: newPools()}
}

// Insert associates value with key, returning the value key previously
// held (existed == true) or zero (existed == false).
func (t *Tree) Insert(key Key, value uint64) (previous uint64, existed bool) {
	l := t.p.newLeaf(key, value)
	if t.root == nil {
		t.root = l
		return 0, false
	}
	newRoot, prev, existed := insertNode(t.p, t.root, l, 0)
	t.root = newRoot
	return prev, existed
}

// Free drops the root and releases every node reachable from it. If
// the tree was constructed with NewPooledTree, released nodes return
// to this tree's own pools for reuse by its later inserts; otherwise this simply
// clears the root for the garbage collector, per spec.md §3's
// ownership/lifecycle contract.
func (t *Tree) Free() {
	t.p.put(t.root)
	t.root = nil
}

// Find returns the value stored under key, if any.
func (t *Tree) Find(key Key) (uint64, bool) {
	if t.root == nil {
		return 0, false
	}
	return findHandle(t.root, key, 0)
}

// Erase removes key, returning the removed value and whether it was
// present.
func (t *Tree) Erase(key Key) (removed uint64, ok bool) {
	if t.root == nil {
		return 0, false
	}
	newRoot, removed, ok := eraseNode(t.root, key, 0)
	if !ok {
		return 0, false
	}
	t.root = newRoot
	return removed, true
}

// IsEmpty reports whether the tree holds no keys.
func (t *Tree) IsEmpty() bool {
	return t.root == nil
}

func (t *Tree) rootHandle() handle {
	if t.root == nil {
		return nil
	}
	return t.root
}

func (t *Tree) newIterator() *Iterator {
	it := &Iterator{tree: t}
	it.root = t.rootHandle
	return it
}

// First returns an iterator positioned at the smallest key. The
// iterator is null-valued (Valid() == false) if the tree is empty.
func (t *Tree) First() *Iterator {
	it := t.newIterator()
	it.descendLeftmost(t.rootHandle())
	return it
}

// Last returns an iterator positioned at the largest key.
func (t *Tree) Last() *Iterator {
	it := t.newIterator()
	it.descendRightmost(t.rootHandle())
	return it
}

// LowerBound returns an iterator positioned at the least key >= key.
func (t *Tree) LowerBound(key Key) *Iterator {
	it := t.newIterator()
	it.LowerBound(key)
	return it
}

// UpperBound returns an iterator positioned at the least key > key.
func (t *Tree) UpperBound(key Key) *Iterator {
	it := t.newIterator()
	it.UpperBound(key)
	return it
}

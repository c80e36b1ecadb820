package art

// maxStackDepth bounds the iterator's root-to-leaf frame stack. A
// 6-byte key consumes at least one byte per inner node, so a path can
// hold at most KeyLen inner frames above its leaf; the +1 is slack
// matching spec.md §9's Design Notes ("fixed maximum depth, <= 7
// including the leaf").
const maxStackDepth = KeyLen + 1

type frame struct {
	h   handle
	has bool
	b   byte
}

func (f *frame) ptr() *byte {
	if !f.has {
		return nil
	}
	return &f.b
}

// Iterator is a stack-based ordered cursor over a Tree or FrozenTree,
// obtained from their First, Last, LowerBound and UpperBound methods;
// a zero Iterator is not bound to any tree and its seek methods panic.
// A cursor that names no leaf reports Valid() == false.
//
// Grounded on the teacher's iterator.go: the linked *checkpoint chain
// and its olock-based re-validation are replaced by a fixed-capacity
// inline array (no concurrent mutator can invalidate a frame out from
// under this cursor, so there is nothing to re-validate), and Prev,
// LowerBound, UpperBound, InsertAt and EraseAt are added to meet
// spec.md §4.4's full contract.
type Iterator struct {
	tree *Tree
	root func() handle

	stack [maxStackDepth]frame
	top   int

	key   Key
	value uint64
	valid bool
}

// Valid reports whether the cursor currently names a leaf.
func (it *Iterator) Valid() bool { return it.valid }

// Key returns the key at the cursor. Only meaningful when Valid.
func (it *Iterator) Key() Key { return it.key }

// Value returns the value at the cursor. Only meaningful when Valid.
func (it *Iterator) Value() uint64 { return it.value }

func (it *Iterator) reset() {
	it.top = 0
	it.valid = false
}

func (it *Iterator) pushFrame(h handle) {
	it.stack[it.top] = frame{h: h}
	it.top++
}

func (it *Iterator) settle(b byte) {
	f := &it.stack[it.top-1]
	f.has = true
	f.b = b
}

// descendLeftmost positions the cursor at the smallest leaf reachable
// from h, pushing frames for every inner node on the way down.
func (it *Iterator) descendLeftmost(h handle) bool {
	if h == nil {
		return false
	}
	if h.isLeaf() {
		it.key, it.value = h.leafKV()
		it.valid = true
		return true
	}
	b, next := h.nextAt(nil)
	if next == nil {
		return false
	}
	it.pushFrame(h)
	it.settle(b)
	return it.descendLeftmost(next)
}

// descendRightmost is descendLeftmost's mirror image.
func (it *Iterator) descendRightmost(h handle) bool {
	if h == nil {
		return false
	}
	if h.isLeaf() {
		it.key, it.value = h.leafKV()
		it.valid = true
		return true
	}
	b, prev := h.prevAt(nil)
	if prev == nil {
		return false
	}
	it.pushFrame(h)
	it.settle(b)
	return it.descendRightmost(prev)
}

// Next advances to the in-order successor. It returns false, and
// leaves the cursor null-valued, once stepped past the last leaf.
func (it *Iterator) Next() bool {
	for it.top > 0 {
		f := &it.stack[it.top-1]
		b, next := f.h.nextAt(f.ptr())
		if next == nil {
			it.top--
			continue
		}
		f.has = true
		f.b = b
		return it.descendLeftmost(next)
	}
	it.valid = false
	return false
}

// Prev retreats to the in-order predecessor, symmetric with Next.
func (it *Iterator) Prev() bool {
	for it.top > 0 {
		f := &it.stack[it.top-1]
		b, prev := f.h.prevAt(f.ptr())
		if prev == nil {
			it.top--
			continue
		}
		f.has = true
		f.b = b
		return it.descendRightmost(prev)
	}
	it.valid = false
	return false
}

// LowerBound repositions the cursor at the least leaf whose key is >=
// key, per spec.md §4.4.
func (it *Iterator) LowerBound(key Key) bool {
	it.reset()
	root := it.root()
	if root == nil {
		return false
	}
	return it.seek(root, key, 0, false)
}

// UpperBound repositions the cursor at the least leaf whose key is >
// key.
func (it *Iterator) UpperBound(key Key) bool {
	it.reset()
	root := it.root()
	if root == nil {
		return false
	}
	return it.seek(root, key, 0, true)
}

// seek implements both LowerBound and UpperBound: the descent logic is
// identical, the two differ only in whether an exact leaf match at the
// target depth counts as a hit (strict == true means "advance one
// step" past an exact match, i.e. upper_bound).
func (it *Iterator) seek(h handle, key Key, depth int, strict bool) bool {
	if h.isLeaf() {
		k, v := h.leafKV()
		cmp := k.Compare(key)
		if cmp > 0 || (!strict && cmp == 0) {
			it.key, it.value, it.valid = k, v, true
			return true
		}
		return false
	}

	prefix := h.prefixBytes()
	for i, pb := range prefix {
		kb := key[depth+i]
		if pb < kb {
			return false
		}
		if pb > kb {
			return it.descendLeftmostUnder(h)
		}
	}

	nextDepth := depth + len(prefix)
	edge := key[nextDepth]
	_, child := h.childAt(edge)

	it.pushFrame(h)
	it.settle(edge)

	if child != nil && it.seek(child, key, nextDepth+1, strict) {
		return true
	}

	if b, sibling := h.nextAt(&edge); sibling != nil {
		it.settle(b)
		return it.descendLeftmost(sibling)
	}

	it.top--
	return false
}

// descendLeftmostUnder pushes a frame for h itself before descending,
// used when h's whole subtree is known to be >= the sought key.
func (it *Iterator) descendLeftmostUnder(h handle) bool {
	b, next := h.nextAt(nil)
	if next == nil {
		return false
	}
	it.pushFrame(h)
	it.settle(b)
	return it.descendLeftmost(next)
}

// InsertAt inserts key/value through the tree this iterator was
// created from and repositions the cursor on the resulting leaf, per
// spec.md §4.4's iterator_insert. It panics if the iterator is backed
// by a FrozenTree.
func (it *Iterator) InsertAt(key Key, value uint64) (uint64, bool) {
	if it.tree == nil {
		panic(errFrozenMutation)
	}
	prev, existed := it.tree.Insert(key, value)
	it.LowerBound(key)
	return prev, existed
}

// EraseAt removes the leaf under the cursor, returns its value, and
// advances the cursor to the in-order successor (null-valued if
// none), per spec.md §4.4's iterator_erase. It panics if the iterator
// is backed by a FrozenTree, and returns ok == false if the cursor was
// already null-valued.
func (it *Iterator) EraseAt() (value uint64, ok bool) {
	if it.tree == nil {
		panic(errFrozenMutation)
	}
	if !it.valid {
		return 0, false
	}

	removedKey := it.key
	removedValue := it.value

	hasSuccessor := it.UpperBound(removedKey)
	var successorKey Key
	if hasSuccessor {
		successorKey = it.key
	}

	it.tree.Erase(removedKey)

	if hasSuccessor {
		it.LowerBound(successorKey)
	} else {
		it.reset()
	}
	return removedValue, true
}

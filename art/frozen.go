package art

import (
	"encoding/binary"
	"unsafe"
)

// FrozenTree is a read-only tree that borrows a single contiguous
// buffer produced by Tree.Serialize and performs no allocation of its
// own, per spec.md §4.5. Every handle it hands out decodes directly
// from buf; there is no live node graph underneath it.
type FrozenTree struct {
	buf  []byte
	root handle
}

// FrozenView reconstitutes a read-only tree from buf without copying
// or allocating node storage, returning the number of bytes consumed
// (always the serialized length recorded in buf's header). buf must
// have been produced by Serialize (or be a prefix-compatible byte-exact
// format) and must remain unmodified and alive for the FrozenTree's
// entire lifetime.
//
// Grounded on spec.md §4.5's frozen_view contract and §7's format-error
// taxonomy: a malformed header (bad magic/version, truncated or
// misaligned buffer) returns ErrFormat and no tree, rather than
// panicking or returning a partially-usable value.
func FrozenView(buf []byte) (*FrozenTree, uint64, error) {
	if len(buf) < headerSize {
		return nil, 0, ErrFormat
	}
	if uintptr(unsafe.Pointer(&buf[0]))%8 != 0 {
		return nil, 0, ErrFormat
	}

	magic := binary.LittleEndian.Uint32(buf[0:4])
	version := binary.LittleEndian.Uint32(buf[4:8])
	if magic != formatMagic || version != formatVersion {
		return nil, 0, ErrFormat
	}

	size := binary.LittleEndian.Uint64(buf[8:16])
	if size < headerSize || size%8 != 0 || uint64(len(buf)) < size {
		return nil, 0, ErrFormat
	}

	rootOffset := binary.LittleEndian.Uint64(buf[16:24])
	if rootOffset != 0 && (rootOffset < headerSize || rootOffset >= size) {
		return nil, 0, ErrFormat
	}

	fz := &FrozenTree{buf: buf[:size]}
	if rootOffset != 0 {
		fz.root = frozenHandle{buf: fz.buf, off: rootOffset}
	}
	return fz, size, nil
}

// Close is a no-op: a frozen tree never allocates, so there is nothing
// to release beyond the caller's own buffer (spec.md §6: "no-op on
// frozen trees").
func (fz *FrozenTree) Close() {}

func (fz *FrozenTree) rootHandle() handle { return fz.root }

func (fz *FrozenTree) newIterator() *Iterator {
	it := &Iterator{}
	it.root = fz.rootHandle
	return it
}

// IsEmpty reports whether the frozen tree holds no keys.
func (fz *FrozenTree) IsEmpty() bool { return fz.root == nil }

// Find returns the value stored under key, if any.
func (fz *FrozenTree) Find(key Key) (uint64, bool) {
	if fz.root == nil {
		return 0, false
	}
	return findHandle(fz.root, key, 0)
}

// First returns an iterator positioned at the smallest key.
func (fz *FrozenTree) First() *Iterator {
	it := fz.newIterator()
	it.descendLeftmost(fz.root)
	return it
}

// Last returns an iterator positioned at the largest key.
func (fz *FrozenTree) Last() *Iterator {
	it := fz.newIterator()
	it.descendRightmost(fz.root)
	return it
}

// LowerBound returns an iterator positioned at the least key >= key.
func (fz *FrozenTree) LowerBound(key Key) *Iterator {
	it := fz.newIterator()
	it.LowerBound(key)
	return it
}

// UpperBound returns an iterator positioned at the least key > key.
func (fz *FrozenTree) UpperBound(key Key) *Iterator {
	it := fz.newIterator()
	it.UpperBound(key)
	return it
}

// frozenHandle is a handle backed by an offset into a FrozenTree's
// borrowed buffer rather than a live node pointer. It decodes fields on
// every dereference instead of relocating offsets to pointers in
// place, per spec.md §4.5's option (a) ("keep offsets and convert on
// each dereference").
type frozenHandle struct {
	buf []byte
	off uint64
}

func (h frozenHandle) kind() byte { return h.buf[h.off] }

func (h frozenHandle) isLeaf() bool { return h.kind() == nodeKindLeaf }

func (h frozenHandle) leafKV() (Key, uint64) {
	var k Key
	copy(k[:], h.buf[h.off+8:h.off+8+KeyLen])
	v := binary.LittleEndian.Uint64(h.buf[h.off+16 : h.off+24])
	return k, v
}

func (h frozenHandle) prefixBytes() []byte {
	plen := uint64(h.buf[h.off+1])
	return h.buf[h.off+8 : h.off+8+plen]
}

func (h frozenHandle) count() int {
	return int(binary.LittleEndian.Uint16(h.buf[h.off+2 : h.off+4]))
}

func (h frozenHandle) child(off uint64) handle {
	return frozenHandle{buf: h.buf, off: off}
}

// smallKeysAndChildren returns the absolute offsets of the keys and
// children arrays for an N4/N16 record.
func (h frozenHandle) smallKeysAndChildren() (keysOff, childrenOff uint64) {
	if h.kind() == nodeKindN4 {
		return h.off + n4KeysOff, h.off + n4ChildrenOff
	}
	return h.off + n16KeysOff, h.off + n16ChildrenOff
}

func (h frozenHandle) childAt(b byte) (int, handle) {
	switch h.kind() {
	case nodeKindN4, nodeKindN16:
		keysOff, childrenOff := h.smallKeysAndChildren()
		n := h.count()
		for i := 0; i < n; i++ {
			if h.buf[keysOff+uint64(i)] == b {
				off := binary.LittleEndian.Uint64(h.buf[childrenOff+8*uint64(i) : childrenOff+8*uint64(i)+8])
				return i, h.child(off)
			}
		}
		return 0, nil
	case nodeKindN48:
		idxOff := h.off + n48IndexOff + 2*uint64(b)
		idx := binary.LittleEndian.Uint16(h.buf[idxOff : idxOff+2])
		if idx == 0 {
			return 0, nil
		}
		childOff := h.off + n48ChildrenOff + 8*uint64(idx-1)
		off := binary.LittleEndian.Uint64(h.buf[childOff : childOff+8])
		return int(b), h.child(off)
	case nodeKindN256:
		childOff := h.off + n256ChildrenOff + 8*uint64(b)
		off := binary.LittleEndian.Uint64(h.buf[childOff : childOff+8])
		if off == 0 {
			return 0, nil
		}
		return int(b), h.child(off)
	}
	return 0, nil
}

func (h frozenHandle) nextAt(prev *byte) (byte, handle) {
	switch h.kind() {
	case nodeKindN4, nodeKindN16:
		keysOff, childrenOff := h.smallKeysAndChildren()
		n := h.count()
		for i := 0; i < n; i++ {
			kb := h.buf[keysOff+uint64(i)]
			if prev == nil || kb > *prev {
				off := binary.LittleEndian.Uint64(h.buf[childrenOff+8*uint64(i) : childrenOff+8*uint64(i)+8])
				return kb, h.child(off)
			}
		}
		return 0, nil
	case nodeKindN48:
		start := 0
		if prev != nil {
			start = int(*prev) + 1
		}
		for b := start; b < 256; b++ {
			idxOff := h.off + n48IndexOff + 2*uint64(b)
			idx := binary.LittleEndian.Uint16(h.buf[idxOff : idxOff+2])
			if idx != 0 {
				childOff := h.off + n48ChildrenOff + 8*uint64(idx-1)
				off := binary.LittleEndian.Uint64(h.buf[childOff : childOff+8])
				return byte(b), h.child(off)
			}
		}
		return 0, nil
	case nodeKindN256:
		start := 0
		if prev != nil {
			start = int(*prev) + 1
		}
		for b := start; b < 256; b++ {
			childOff := h.off + n256ChildrenOff + 8*uint64(b)
			off := binary.LittleEndian.Uint64(h.buf[childOff : childOff+8])
			if off != 0 {
				return byte(b), h.child(off)
			}
		}
		return 0, nil
	}
	return 0, nil
}

func (h frozenHandle) prevAt(prev *byte) (byte, handle) {
	switch h.kind() {
	case nodeKindN4, nodeKindN16:
		keysOff, childrenOff := h.smallKeysAndChildren()
		n := h.count()
		if n == 0 {
			return 0, nil
		}
		if prev == nil {
			i := n - 1
			off := binary.LittleEndian.Uint64(h.buf[childrenOff+8*uint64(i) : childrenOff+8*uint64(i)+8])
			return h.buf[keysOff+uint64(i)], h.child(off)
		}
		for i := n - 1; i >= 0; i-- {
			kb := h.buf[keysOff+uint64(i)]
			if kb < *prev {
				off := binary.LittleEndian.Uint64(h.buf[childrenOff+8*uint64(i) : childrenOff+8*uint64(i)+8])
				return kb, h.child(off)
			}
		}
		return 0, nil
	case nodeKindN48:
		start := 255
		if prev != nil {
			if *prev == 0 {
				return 0, nil
			}
			start = int(*prev) - 1
		}
		for b := start; b >= 0; b-- {
			idxOff := h.off + n48IndexOff + 2*uint64(b)
			idx := binary.LittleEndian.Uint16(h.buf[idxOff : idxOff+2])
			if idx != 0 {
				childOff := h.off + n48ChildrenOff + 8*uint64(idx-1)
				off := binary.LittleEndian.Uint64(h.buf[childOff : childOff+8])
				return byte(b), h.child(off)
			}
		}
		return 0, nil
	case nodeKindN256:
		start := 255
		if prev != nil {
			if *prev == 0 {
				return 0, nil
			}
			start = int(*prev) - 1
		}
		for b := start; b >= 0; b-- {
			childOff := h.off + n256ChildrenOff + 8*uint64(b)
			off := binary.LittleEndian.Uint64(h.buf[childOff : childOff+8])
			if off != 0 {
				return byte(b), h.child(off)
			}
		}
		return 0, nil
	}
	return 0, nil
}

package art

import (
	"encoding/binary"
	"fmt"
)

// ShrinkToFit normalizes every inner node to the smallest variant that
// can hold its current child count, undoing the hysteresis insert/
// erase deliberately leave in place. spec.md §4.5 requires this as a
// precondition of Serialize so the serialized form is minimal.
func (t *Tree) ShrinkToFit() {
	if t.root == nil {
		return
	}
	t.root = shrinkToFitNode(t.root)
}

func shrinkToFitNode(n node) node {
	in, ok := n.(*inner)
	if !ok {
		return n
	}
	for _, e := range childEntries(in.node) {
		shrunk := shrinkToFitNode(e.n)
		idx, _ := in.node.child(e.b)
		in.node.replace(idx, shrunk)
	}
	in.node = minimalVariant(in.node)
	return in
}

func minimalVariant(n inode) inode {
	for capacityOf(n) > minimalCapacity(n.count()) {
		n = n.shrink()
	}
	return n
}

func capacityOf(n inode) int {
	switch n.(type) {
	case *node4:
		return 4
	case *node16:
		return 16
	case *node48:
		return 48
	case *node256:
		return 256
	}
	panic("art: unknown inode type")
}

func minimalCapacity(count int) int {
	switch {
	case count <= 4:
		return 4
	case count <= 16:
		return 16
	case count <= 48:
		return 48
	default:
		return 256
	}
}

// SizeInBytes returns the exact number of bytes Serialize will write.
func (t *Tree) SizeInBytes() uint64 {
	if t.root == nil {
		return headerSize
	}
	return headerSize + subtreeSize(t.root)
}

func subtreeSize(n node) uint64 {
	size := recordSize(n)
	if in, ok := n.(*inner); ok {
		for _, e := range childEntries(in.node) {
			size += subtreeSize(e.n)
		}
	}
	return size
}

// Serialize writes the tree into buf, which must be at least
// SizeInBytes() long and 8-byte aligned, and returns the number of
// bytes written (always SizeInBytes()). Call ShrinkToFit first to get
// the minimal encoding.
func (t *Tree) Serialize(buf []byte) (uint64, error) {
	size := t.SizeInBytes()
	if uint64(len(buf)) < size {
		return 0, fmt.Errorf("art: buffer too small: need %d bytes, have %d", size, len(buf))
	}

	var rootOffset uint64
	cursor := uint64(headerSize)
	if t.root != nil {
		rootOffset = writeNode(t.root, buf, &cursor)
	}

	binary.LittleEndian.PutUint32(buf[0:4], formatMagic)
	binary.LittleEndian.PutUint32(buf[4:8], formatVersion)
	binary.LittleEndian.PutUint64(buf[8:16], size)
	binary.LittleEndian.PutUint64(buf[16:24], rootOffset)
	return size, nil
}

// writeNode lays out nodes in post-order: every child is written
// (and its offset known) before its parent, so the parent's child
// references can be encoded as plain byte offsets into buf.
func writeNode(n node, buf []byte, cursor *uint64) uint64 {
	switch t := n.(type) {
	case *leaf:
		return writeLeaf(t, buf, cursor)
	case *inner:
		return writeInner(t, buf, cursor)
	}
	panic("art: unknown node type")
}

func writeLeaf(l *leaf, buf []byte, cursor *uint64) uint64 {
	off := *cursor
	rec := buf[off : off+leafRecordSize]
	for i := range rec {
		rec[i] = 0
	}
	rec[0] = nodeKindLeaf
	copy(rec[8:14], l.key[:])
	binary.LittleEndian.PutUint64(rec[16:24], l.value)
	*cursor += leafRecordSize
	return off
}

func writeInner(in *inner, buf []byte, cursor *uint64) uint64 {
	entries := childEntries(in.node)
	offsets := make([]uint64, len(entries))
	for i, e := range entries {
		offsets[i] = writeNode(e.n, buf, cursor)
	}

	kind := kindOf(in.node)
	size := recordSize(in)
	off := *cursor
	rec := buf[off : off+size]
	for i := range rec {
		rec[i] = 0
	}

	rec[0] = kind
	rec[1] = byte(in.prefixLen)
	binary.LittleEndian.PutUint16(rec[2:4], uint16(in.node.count()))
	copy(rec[8:8+in.prefixLen], in.prefix[:in.prefixLen])

	switch kind {
	case nodeKindN4:
		for i, e := range entries {
			rec[n4KeysOff+i] = e.b
			binary.LittleEndian.PutUint64(rec[n4ChildrenOff+8*i:n4ChildrenOff+8*i+8], offsets[i])
		}
	case nodeKindN16:
		for i, e := range entries {
			rec[n16KeysOff+i] = e.b
			binary.LittleEndian.PutUint64(rec[n16ChildrenOff+8*i:n16ChildrenOff+8*i+8], offsets[i])
		}
	case nodeKindN48:
		for i, e := range entries {
			binary.LittleEndian.PutUint16(rec[n48IndexOff+2*int(e.b):n48IndexOff+2*int(e.b)+2], uint16(i+1))
			binary.LittleEndian.PutUint64(rec[n48ChildrenOff+8*i:n48ChildrenOff+8*i+8], offsets[i])
		}
	case nodeKindN256:
		for i, e := range entries {
			binary.LittleEndian.PutUint64(rec[n256ChildrenOff+8*int(e.b):n256ChildrenOff+8*int(e.b)+8], offsets[i])
		}
	}

	*cursor += size
	return off
}

package art

import (
	"bytes"
	"fmt"
)

// Stats counts the nodes and leaves a validation pass visited.
type Stats struct {
	Nodes  int
	Leaves int
}

// Validate checks the tree's current shape, returning a human-readable
// reason on the first violation found. It checks that no node lies
// deeper than KeyLen, that every inner node's prefix leaves room for an
// edge byte, that children are in strictly ascending edge-byte order,
// that every inner node has at least two children, and that each
// leaf's key matches the path bytes that reached it. It does not check
// that a node's variant is minimal for its child count, the N48 index
// and slot layout, the N256 null count, a node's stored count against
// its enumerated children, or the absence of cycles.
//
// Net new relative to the teacher, which instead asserts shape in
// tests via testView() string comparison. Grounded on
// original_source/tests/art_unit.cpp's assert_art_valid /
// art_internal_validate: a recursive descent reporting (ok, reason)
// plus node/leaf counts.
func (t *Tree) Validate() (ok bool, reason string, stats Stats) {
	if t.root == nil {
		return true, "", stats
	}
	var path [KeyLen]byte
	if ok, reason = validateNode(t.root, 0, &path, &stats); !ok {
		return false, reason, stats
	}
	return true, "", stats
}

// Validate runs the same checks over a frozen, buffer-backed tree.
func (fz *FrozenTree) Validate() (ok bool, reason string, stats Stats) {
	if fz.root == nil {
		return true, "", stats
	}
	var path [KeyLen]byte
	if ok, reason = validateNode(fz.root, 0, &path, &stats); !ok {
		return false, reason, stats
	}
	return true, "", stats
}

// validateNode walks h, accumulating the key bytes implied by the path
// taken so far into path so a leaf's stored key can be checked against
// the path that reached it (spec.md §4.6: "leaf keys equal the
// reconstructed path").
func validateNode(h handle, depth int, path *[KeyLen]byte, stats *Stats) (bool, string) {
	if depth > KeyLen {
		return false, fmt.Sprintf("depth %d exceeds key length %d", depth, KeyLen)
	}

	if h.isLeaf() {
		stats.Leaves++
		// Path compression means a leaf can be reached anywhere from
		// depth 0 (a single-key tree's bare-leaf root) up to depth
		// KeyLen (two leaves diverging only in their final byte): only
		// the bytes actually consumed by ancestors are constrained, the
		// rest is the leaf's own redundantly-stored data.
		k, _ := h.leafKV()
		if !bytes.Equal(path[:depth], k[:depth]) {
			return false, fmt.Sprintf("leaf key %s does not match reconstructed path %x", k, path[:depth])
		}
		return true, ""
	}

	stats.Nodes++
	prefix := h.prefixBytes()
	if depth+len(prefix) >= KeyLen {
		return false, fmt.Sprintf("prefix of length %d at depth %d leaves no room for an edge byte", len(prefix), depth)
	}
	copy(path[depth:], prefix)

	nextDepth := depth + len(prefix)

	count := 0
	var lastByte int = -1
	var b byte
	var ptr *byte
	for {
		var child handle
		b, child = h.nextAt(ptr)
		if child == nil {
			break
		}
		if int(b) <= lastByte {
			return false, fmt.Sprintf("children out of order at depth %d: %d after %d", depth, b, lastByte)
		}
		lastByte = int(b)
		count++
		path[nextDepth] = b

		if ok, reason := validateNode(child, nextDepth+1, path, stats); !ok {
			return false, reason
		}

		ptr = &b
	}

	if count < 2 {
		return false, fmt.Sprintf("inner node at depth %d has %d children, want >= 2", depth, count)
	}

	return true, ""
}

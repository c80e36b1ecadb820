package art

// findHandle looks up key under h (at the given depth) and is shared,
// unmodified, by Tree.Find and FrozenTree.Find: it is written once
// against the handle abstraction so a live tree and a frozen,
// buffer-backed tree answer reads identically, per spec.md §4.5's
// round-trip requirement.
func findHandle(h handle, key Key, depth int) (uint64, bool) {
	for {
		if h.isLeaf() {
			k, v := h.leafKV()
			if k == key {
				return v, true
			}
			return 0, false
		}

		prefix := h.prefixBytes()
		cmp := comparePrefix(prefix, key[:], 0, depth)
		if cmp != len(prefix) {
			return 0, false
		}

		depth += len(prefix)
		_, next := h.childAt(key[depth])
		if next == nil {
			return 0, false
		}
		depth++
		h = next
	}
}

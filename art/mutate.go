package art

// insertNode inserts l under n at the given depth, returning the
// (possibly new) node that should replace n in its parent, the value
// previously stored under l.key if any, and whether it existed.
//
// Grounded on the teacher's inner.insert/leaf.insert in node.go, with
// the *olock/version/restart plumbing removed: this module carries no
// concurrent-mutation non-goal to serve (spec.md §5 excludes it), so
// the algorithm is a plain recursive rewrite instead of an optimistic
// lock-coupling state machine. p supplies the node allocator (§5's
// injectable capability); it may be nil.
func insertNode(p *pools, n node, l *leaf, depth int) (node, uint64, bool) {
	if n.isLeaf() {
		return insertLeaf(p, n.(*leaf), l, depth)
	}
	return insertInner(p, n.(*inner), l, depth)
}

func insertLeaf(p *pools, old *leaf, l *leaf, depth int) (node, uint64, bool) {
	if old.key == l.key {
		return l, old.value, true
	}

	// old.key[:depth] == l.key[:depth] by construction of the caller's
	// recursion, so a full-key match above already excludes old.key ==
	// l.key; the common prefix from depth can't reach the end of the
	// key, leaving room for at least one diverging byte.
	cmp := comparePrefix(old.key[:], l.key[:], depth, depth)

	nn := p.newInner(cmp, p.newNode4())
	copy(nn.prefix[:], old.key[depth:depth+cmp])
	nn.node.addChild(old.key[depth+cmp], old)
	nn.node.addChild(l.key[depth+cmp], l)
	return nn, 0, false
}

func insertInner(p *pools, n *inner, l *leaf, depth int) (node, uint64, bool) {
	cmp := comparePrefix(n.prefix[:n.prefixLen], l.key[:], 0, depth)
	if cmp != n.prefixLen {
		// Partial prefix match: split. n keeps the matched portion as
		// its prefix and takes a new N4; its old children move to a new
		// inner node carrying the remainder after the diverging byte,
		// attached to that N4 alongside the new leaf.
		child := p.newInner(n.prefixLen-cmp-1, n.node)
		copy(child.prefix[:], n.prefix[cmp+1:n.prefixLen])

		nn := p.newNode4()
		nn.addChild(l.key[depth+cmp], l)
		nn.addChild(n.prefix[cmp], child)

		n.node = nn
		n.prefixLen = cmp
		return n, 0, false
	}

	nextDepth := depth + n.prefixLen
	idx, next := n.node.child(l.key[nextDepth])
	if next == nil {
		if n.node.full() {
			n.node = n.node.grow()
		}
		n.node.addChild(l.key[nextDepth], l)
		return n, 0, false
	}

	replacement, prev, existed := insertNode(p, next, l, nextDepth+1)
	n.node.replace(idx, replacement)
	return n, prev, existed
}

// eraseNode removes key from the subtree rooted at n, returning the
// (possibly new, possibly nil) node that should replace n in its
// parent, the removed value, and whether the key was found.
//
// Grounded on the teacher's inner.del, with lock plumbing dropped and
// the collapse/shrink bookkeeping adjusted to spec.md §4.1/§4.3: any
// inner node reduced to a single child is collapsed (not only node4,
// as the teacher special-cased), and shrink thresholds follow
// shrinkThreshold rather than the teacher's per-variant min().
func eraseNode(n node, key Key, depth int) (node, uint64, bool) {
	if n.isLeaf() {
		l := n.(*leaf)
		if l.key == key {
			return nil, l.value, true
		}
		return n, 0, false
	}

	in := n.(*inner)
	cmp := comparePrefix(in.prefix[:in.prefixLen], key[:], 0, depth)
	if cmp != in.prefixLen {
		return n, 0, false
	}

	nextDepth := depth + in.prefixLen
	idx, next := in.node.child(key[nextDepth])
	if next == nil {
		return n, 0, false
	}

	if next.isLeaf() {
		l := next.(*leaf)
		if l.key != key {
			return n, 0, false
		}

		in.node.replace(idx, nil)

		if in.node.count() == 1 {
			return collapse(in, l.value), l.value, true
		}
		if shrinkThreshold(in.node) {
			in.node = in.node.shrink()
		}
		return in, l.value, true
	}

	replacement, removed, ok := eraseNode(next, key, nextDepth+1)
	if !ok {
		return n, 0, false
	}
	in.node.replace(idx, replacement)
	return in, removed, true
}

// collapse merges in's prefix, the edge byte to its sole surviving
// child, and that child's own prefix into the survivor, per spec.md
// §4.3's path-collapse rule. removedValue is unused but named to keep
// call sites self-documenting about what just left the tree.
func collapse(in *inner, removedValue uint64) node {
	_ = removedValue
	edge, survivor := in.node.next(nil)
	if survivor.isLeaf() {
		return survivor
	}

	child := survivor.(*inner)
	var merged [maxPrefixLen]byte
	copy(merged[:], in.prefix[:in.prefixLen])
	merged[in.prefixLen] = edge
	copy(merged[in.prefixLen+1:], child.prefix[:child.prefixLen])

	child.prefix = merged
	child.prefixLen = in.prefixLen + 1 + child.prefixLen
	return child
}

package art

import "github.com/dshulyak/art6/internal/alloc"

// pools bundles one internal/alloc.Pool per node shape. A nil *pools
// (the zero Tree's default) falls back to plain `new`, matching
// alloc.Pool's own nil-is-valid discipline; every call site below goes
// through these accessor methods so callers never need a nil check of
// their own.
//
// spec.md §5 asks for an injectable allocator so callers can substitute
// an arena. This module's answer, grounded on gaissmai/bart's pool[V]
// (other_examples/_examples/gaissmai-bart/pool.go): the injectable axis
// is "pooled or not" rather than a fully pluggable arena interface,
// because node is an unexported sum type and an arena abstraction
// exported across the package boundary would have to either leak that
// type or operate on interface{}, both worse than bart's nil-pool
// convention. See DESIGN.md for the full tradeoff.
type pools struct {
	leaf  *alloc.Pool[leaf]
	inner *alloc.Pool[inner]
	n4    *alloc.Pool[node4]
	n16   *alloc.Pool[node16]
	n48   *alloc.Pool[node48]
	n256  *alloc.Pool[node256]
}

func newPools() *pools {
	return &pools{
		leaf:  alloc.New[leaf](),
		inner: alloc.New[inner](),
		n4:    alloc.New[node4](),
		n16:   alloc.New[node16](),
		n48:   alloc.New[node48](),
		n256:  alloc.New[node256](),
	}
}

func (p *pools) newLeaf(key Key, value uint64) *leaf {
	if p == nil {
		return &leaf{key: key, value: value}
	}
	l := p.leaf.Get()
	l.key, l.value = key, value
	return l
}

func (p *pools) newInner(prefixLen int, in inode) *inner {
	if p == nil {
		return &inner{prefixLen: prefixLen, node: in}
	}
	n := p.inner.Get()
	n.prefixLen = prefixLen
	n.node = in
	return n
}

func (p *pools) newNode4() *node4 {
	if p == nil {
		return &node4{}
	}
	return p.n4.Get()
}

// put returns every node reachable from n to its pool, including n
// itself. It is used only by Tree.Free: individual erased nodes are
// left for the garbage collector rather than threaded back through
// erase's recursion, since the bulk release on Free is the case an
// arena discipline actually optimizes for (see DESIGN.md).
func (p *pools) put(n node) {
	if p == nil || n == nil {
		return
	}
	switch v := n.(type) {
	case *leaf:
		p.leaf.Put(v)
	case *inner:
		for _, e := range childEntries(v.node) {
			p.put(e.n)
		}
		p.putInode(v.node)
		p.inner.Put(v)
	}
}

func (p *pools) putInode(n inode) {
	switch v := n.(type) {
	case *node4:
		p.n4.Put(v)
	case *node16:
		p.n16.Put(v)
	case *node48:
		p.n48.Put(v)
	case *node256:
		p.n256.Put(v)
	}
}

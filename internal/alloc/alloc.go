// Package alloc provides a type-safe, generic wrapper around sync.Pool
// for recycling fixed-shape values across a tree's lifetime. It is the
// injectable allocation capability the art package's node pools are
// built from.
package alloc

import "sync"

// Pool recycles *T values. A nil *Pool is valid and simply allocates a
// fresh zero value on every Get, discarding on every Put; this mirrors
// the nil-pool idiom used elsewhere in this ecosystem (pool[V] in
// gaissmai/bart) so "no pooling" and "pooling" are the same code path
// with the pool reference swapped for nil.
type Pool[T any] struct {
	pool sync.Pool
}

// New returns a ready-to-use Pool for T.
func New[T any]() *Pool[T] {
	p := &Pool[T]{}
	p.pool.New = func() any { return new(T) }
	return p
}

// Get returns a *T, either recycled or freshly allocated.
func (p *Pool[T]) Get() *T {
	if p == nil {
		return new(T)
	}
	return p.pool.Get().(*T)
}

// Put zeroes v and returns it to the pool for reuse. Safe to call on a
// nil Pool or with a nil v (both are no-ops beyond dropping the value).
func (p *Pool[T]) Put(v *T) {
	if p == nil || v == nil {
		return
	}
	var zero T
	*v = zero
	p.pool.Put(v)
}

package art

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSparseTree(t *testing.T) (*Tree, []uint64) {
	t.Helper()
	values := []uint64{0, 1, 2, 255, 256, 257, 4095, 1 << 20, 1<<20 + 1, 1 << 40}
	var tr Tree
	for _, v := range values {
		tr.Insert(KeyFromUint64(v), v)
	}
	return &tr, values
}

func TestIteratorNextCrossesSiblingSubtrees(t *testing.T) {
	tr, values := buildSparseTree(t)

	it := tr.First()
	for i, v := range values {
		require.True(t, it.Valid(), "position %d", i)
		require.Equal(t, v, it.Value())
		it.Next()
	}
	require.False(t, it.Valid())
}

func TestIteratorPrevCrossesSiblingSubtrees(t *testing.T) {
	tr, values := buildSparseTree(t)

	it := tr.Last()
	for i := len(values) - 1; i >= 0; i-- {
		require.True(t, it.Valid(), "position %d", i)
		require.Equal(t, values[i], it.Value())
		it.Prev()
	}
	require.False(t, it.Valid())
}

func TestIteratorNextThenPrevReturnsToSameKey(t *testing.T) {
	tr, _ := buildSparseTree(t)

	it := tr.First()
	it.Next()
	it.Next()
	mid := it.Key()

	it.Next()
	it.Prev()
	require.True(t, it.Valid())
	require.Equal(t, mid, it.Key())
}

func TestIteratorInsertAtRepositionsCursor(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.Insert(KeyFromUint64(3), 3)

	it := tr.First()
	prev, existed := it.InsertAt(KeyFromUint64(2), 2)
	require.False(t, existed)
	require.EqualValues(t, 0, prev)
	require.True(t, it.Valid())
	require.Equal(t, KeyFromUint64(2), it.Key())
	require.EqualValues(t, 2, it.Value())

	it.Next()
	require.True(t, it.Valid())
	require.Equal(t, KeyFromUint64(3), it.Key())
}

func TestIteratorEraseAtMidStreamAdvancesToSuccessor(t *testing.T) {
	var tr Tree
	for _, v := range []uint64{1, 2, 3, 4, 5} {
		tr.Insert(KeyFromUint64(v), v)
	}

	it := tr.LowerBound(KeyFromUint64(3))
	require.True(t, it.Valid())

	removed, ok := it.EraseAt()
	require.True(t, ok)
	require.EqualValues(t, 3, removed)

	require.True(t, it.Valid())
	require.Equal(t, KeyFromUint64(4), it.Key())

	it.Next()
	require.True(t, it.Valid())
	require.Equal(t, KeyFromUint64(5), it.Key())
	it.Next()
	require.False(t, it.Valid())

	_, ok = tr.Find(KeyFromUint64(3))
	require.False(t, ok)
}

func TestIteratorEraseAtLastLeavesCursorInvalid(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.Insert(KeyFromUint64(2), 2)

	it := tr.Last()
	removed, ok := it.EraseAt()
	require.True(t, ok)
	require.EqualValues(t, 2, removed)
	require.False(t, it.Valid())
}

func TestIteratorEraseAtOnInvalidCursorFails(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)

	it := tr.LowerBound(KeyFromUint64(5))
	require.False(t, it.Valid())

	_, ok := it.EraseAt()
	require.False(t, ok)
}

func TestIteratorUpperBoundSkipsExactMatch(t *testing.T) {
	var tr Tree
	for _, v := range []uint64{1, 2, 3} {
		tr.Insert(KeyFromUint64(v), v)
	}

	it := tr.UpperBound(KeyFromUint64(2))
	require.True(t, it.Valid())
	require.Equal(t, KeyFromUint64(3), it.Key())

	it = tr.LowerBound(KeyFromUint64(2))
	require.True(t, it.Valid())
	require.Equal(t, KeyFromUint64(2), it.Key())
}

func TestIteratorInsertAtOnFrozenTreePanics(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	buf := make([]byte, tr.SizeInBytes())
	_, err := tr.Serialize(buf)
	require.NoError(t, err)

	fz, _, err := FrozenView(buf)
	require.NoError(t, err)

	it := fz.First()
	require.Panics(t, func() {
		it.InsertAt(KeyFromUint64(2), 2)
	})
}

func TestIteratorEraseAtOnFrozenTreePanics(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	buf := make([]byte, tr.SizeInBytes())
	_, err := tr.Serialize(buf)
	require.NoError(t, err)

	fz, _, err := FrozenView(buf)
	require.NoError(t, err)

	it := fz.First()
	require.Panics(t, func() {
		it.EraseAt()
	})
}

package art

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildRoundTripTree(t *testing.T) *Tree {
	t.Helper()
	var tr Tree
	for i := uint64(0); i < 500; i++ {
		tr.Insert(KeyFromUint64(i*7+3), i)
	}
	return &tr
}

func TestSerializeFrozenViewRoundTrip(t *testing.T) {
	tr := buildRoundTripTree(t)
	tr.ShrinkToFit()

	ok, reason, _ := tr.Validate()
	require.True(t, ok, reason)

	buf := make([]byte, tr.SizeInBytes())
	n, err := tr.Serialize(buf)
	require.NoError(t, err)
	require.EqualValues(t, len(buf), n)

	fz, consumed, err := FrozenView(buf)
	require.NoError(t, err)
	require.EqualValues(t, len(buf), consumed)

	ok, reason, _ = fz.Validate()
	require.True(t, ok, reason)

	liveIt := tr.First()
	frozenIt := fz.First()
	count := 0
	for liveIt.Valid() {
		require.True(t, frozenIt.Valid())
		require.Equal(t, liveIt.Key(), frozenIt.Key())
		require.Equal(t, liveIt.Value(), frozenIt.Value())
		liveIt.Next()
		frozenIt.Next()
		count++
	}
	require.False(t, frozenIt.Valid())
	require.Equal(t, 500, count)
}

func TestSerializeFrozenViewFindMatches(t *testing.T) {
	tr := buildRoundTripTree(t)
	tr.ShrinkToFit()

	buf := make([]byte, tr.SizeInBytes())
	_, err := tr.Serialize(buf)
	require.NoError(t, err)

	fz, _, err := FrozenView(buf)
	require.NoError(t, err)

	for i := uint64(0); i < 500; i++ {
		key := KeyFromUint64(i*7 + 3)
		want, ok := tr.Find(key)
		require.True(t, ok)
		got, ok := fz.Find(key)
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := fz.Find(KeyFromUint64(2))
	require.False(t, ok)
}

func TestSerializeEmptyTree(t *testing.T) {
	var tr Tree
	tr.ShrinkToFit()
	require.EqualValues(t, headerSize, tr.SizeInBytes())

	buf := make([]byte, tr.SizeInBytes())
	n, err := tr.Serialize(buf)
	require.NoError(t, err)
	require.EqualValues(t, headerSize, n)

	fz, _, err := FrozenView(buf)
	require.NoError(t, err)
	require.True(t, fz.IsEmpty())

	it := fz.First()
	require.False(t, it.Valid())
}

func TestSerializeBufferTooSmall(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	buf := make([]byte, tr.SizeInBytes()-1)
	_, err := tr.Serialize(buf)
	require.Error(t, err)
}

func TestFrozenViewRejectsTruncatedBuffer(t *testing.T) {
	_, _, err := FrozenView(make([]byte, headerSize-1))
	require.ErrorIs(t, err, ErrFormat)
}

func TestFrozenViewRejectsBadMagic(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	buf := make([]byte, tr.SizeInBytes())
	_, err := tr.Serialize(buf)
	require.NoError(t, err)

	buf[0] ^= 0xFF
	_, _, err = FrozenView(buf)
	require.ErrorIs(t, err, ErrFormat)
}

func TestFrozenViewRejectsBadVersion(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	buf := make([]byte, tr.SizeInBytes())
	_, err := tr.Serialize(buf)
	require.NoError(t, err)

	buf[4] = 0xFF
	_, _, err = FrozenView(buf)
	require.ErrorIs(t, err, ErrFormat)
}

func TestFrozenViewRejectsMisalignedLength(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	size := tr.SizeInBytes()
	buf := make([]byte, size+8)
	_, err := tr.Serialize(buf[:size])
	require.NoError(t, err)

	// Corrupt the recorded length to something not 8-byte aligned.
	binary.LittleEndian.PutUint64(buf[8:16], size+1)
	_, _, err = FrozenView(buf)
	require.ErrorIs(t, err, ErrFormat)
}

func TestFrozenViewRejectsOutOfRangeRootOffset(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	buf := make([]byte, tr.SizeInBytes())
	_, err := tr.Serialize(buf)
	require.NoError(t, err)

	// Point rootOffset past the recorded size.
	size := tr.SizeInBytes()
	binary.LittleEndian.PutUint64(buf[16:24], size+8)
	_, _, err = FrozenView(buf)
	require.ErrorIs(t, err, ErrFormat)
}

func TestFrozenViewRejectsShortBufferBelowRecordedSize(t *testing.T) {
	var tr Tree
	tr.Insert(KeyFromUint64(1), 1)
	tr.ShrinkToFit()

	full := make([]byte, tr.SizeInBytes())
	_, err := tr.Serialize(full)
	require.NoError(t, err)

	_, _, err = FrozenView(full[:len(full)-8])
	require.ErrorIs(t, err, ErrFormat)
}

func TestShrinkToFitProducesMinimalVariants(t *testing.T) {
	var tr Tree
	keys := []Key{
		{0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 2},
		{0, 0, 0, 0, 0, 3},
		{0, 0, 0, 0, 0, 4},
		{0, 0, 0, 0, 0, 5},
	}
	for i, k := range keys {
		tr.Insert(k, uint64(i))
	}
	for _, k := range keys[:3] {
		tr.Erase(k)
	}
	tr.ShrinkToFit()

	in, ok := tr.root.(*inner)
	require.True(t, ok)
	_, isNode4 := in.node.(*node4)
	require.True(t, isNode4)
}

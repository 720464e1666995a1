package dynarray

import (
	"errors"
	"math/bits"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmpty(t *testing.T) {
	b, err := New[int](0)
	require.NoError(t, err)

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Cap())
	assert.Nil(t, b.entries)
	assert.Nil(t, b.Data())
}

func TestNewWithCapacity(t *testing.T) {
	b, err := New[int](16)
	require.NoError(t, err)

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 16, b.Cap())
	assert.NotNil(t, b.entries)
	assert.Equal(t, 0, b.Reallocations())
}

func TestNewNegative(t *testing.T) {
	_, err := New[int](-1)
	assert.ErrorIs(t, err, ErrNegativeSize)
}

func TestZeroValueIsUsable(t *testing.T) {
	var b Buffer[string]

	require.NoError(t, b.Append("a"))
	require.NoError(t, b.Append("b"))

	assert.Equal(t, []string{"a", "b"}, b.Data())
	assert.Equal(t, 2, b.Cap())
}

func TestAppendDoublesCapacity(t *testing.T) {
	for n := 1; n <= 70; n++ {
		var b Buffer[int]

		var capacities []int
		for idx := range n {
			require.NoError(t, b.Append(idx))

			if len(capacities) == 0 || capacities[len(capacities)-1] != b.Cap() {
				capacities = append(capacities, b.Cap())
			}
		}

		// 1, 2, 4, ... up to the next power of two
		var expected []int
		for c := 1; ; c *= 2 {
			expected = append(expected, c)
			if c >= n {
				break
			}
		}

		assert.Equal(t, expected, capacities, "n=%d", n)
		assert.Equal(t, 1<<bits.Len(uint(n-1)), b.Cap(), "n=%d", n)
		assert.Equal(t, n, b.Len())
		assert.Equal(t, len(expected), b.Reallocations())
	}
}

func TestGrowNeverShrinks(t *testing.T) {
	b, err := New[int](8)
	require.NoError(t, err)

	for _, value := range []int{7, 8, 9} {
		require.NoError(t, b.Append(value))
	}

	require.NoError(t, b.Grow(5))
	require.NoError(t, b.Grow(8))
	require.NoError(t, b.Reserve(4))
	require.NoError(t, b.Reserve(8))

	assert.Equal(t, 8, b.Cap())
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []int{7, 8, 9}, b.Data())
	assert.Equal(t, 0, b.Reallocations())
}

func TestGrowPolicy(t *testing.T) {
	var b Buffer[int]

	// empty buffer grows to one
	require.NoError(t, b.Grow(0))
	assert.Equal(t, 1, b.Cap())

	// then doubles
	require.NoError(t, b.Grow(0))
	assert.Equal(t, 2, b.Cap())

	// jumps straight to an exact capacity
	require.NoError(t, b.Grow(13))
	assert.Equal(t, 13, b.Cap())

	require.NoError(t, b.Grow(0))
	assert.Equal(t, 26, b.Cap())

	assert.ErrorIs(t, b.Grow(-3), ErrNegativeSize)
	assert.Equal(t, 26, b.Cap())
}

func TestGrowKeepsValues(t *testing.T) {
	var b Buffer[string]
	for _, value := range []string{"x", "y", "z"} {
		require.NoError(t, b.Append(value))
	}

	require.NoError(t, b.Grow(100))

	assert.Equal(t, []string{"x", "y", "z"}, b.Data())
	assert.Equal(t, 100, b.Cap())
}

func TestAppendPreservesOrder(t *testing.T) {
	var b Buffer[uint32]

	var values []uint32
	for idx := range uint32(1000) {
		value := idx*7919 + 3
		values = append(values, value)
		require.NoError(t, b.Append(value))
	}

	for idx, value := range values {
		got, err := b.Get(idx)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	}
}

func TestResizeDownKeepsStorage(t *testing.T) {
	var b Buffer[int]
	for _, value := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, b.Append(value))
	}

	capacity := b.Cap()

	require.NoError(t, b.Resize(2))

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, capacity, b.Cap())
	assert.Equal(t, []int{1, 2}, b.Data())

	// the truncated elements are still in storage
	assert.Equal(t, []int{3, 4, 5}, b.entries[2:5])

	_, err := b.At(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestResizeUpZeroFills(t *testing.T) {
	var b Buffer[float32]

	require.NoError(t, b.Resize(3))

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []float32{0, 0, 0}, b.Data())

	// three zero appends, growing 1 -> 2 -> 4
	assert.Equal(t, 4, b.Cap())
}

func TestResizeUpOverwritesStaleElements(t *testing.T) {
	var b Buffer[int]
	for _, value := range []int{1, 2, 3} {
		require.NoError(t, b.Append(value))
	}

	require.NoError(t, b.Resize(1))
	require.NoError(t, b.Resize(3))

	assert.Equal(t, []int{1, 0, 0}, b.Data())
}

func TestResizeSameLength(t *testing.T) {
	var b Buffer[int]
	require.NoError(t, b.Resize(5))
	require.NoError(t, b.Set(4, 9))

	reallocations := b.Reallocations()

	require.NoError(t, b.Resize(5))
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 9, *b.MustAt(4))
	assert.Equal(t, reallocations, b.Reallocations())
}

func TestResizeNegative(t *testing.T) {
	var b Buffer[int]
	assert.ErrorIs(t, b.Resize(-1), ErrNegativeSize)
	assert.ErrorIs(t, b.Reserve(-1), ErrNegativeSize)
}

func TestReserveThenAppend(t *testing.T) {
	var b Buffer[int]

	require.NoError(t, b.Reserve(100))
	assert.Equal(t, 100, b.Cap())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 1, b.Reallocations())

	for idx := range 100 {
		require.NoError(t, b.Append(idx))
		assert.Equal(t, 100, b.Cap())
	}

	assert.Equal(t, 1, b.Reallocations())
	assert.Equal(t, 100, b.Len())
}

func TestReleaseIsIdempotent(t *testing.T) {
	var empty Buffer[int]
	empty.Release()
	empty.Release()
	assert.Equal(t, 0, empty.Cap())

	b, err := New[[]byte](4)
	require.NoError(t, err)
	require.NoError(t, b.Append([]byte("hello")))

	b.Release()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Cap())
	assert.Nil(t, b.entries)

	assert.NotPanics(t, b.Release)

	// a released buffer can be used again
	require.NoError(t, b.Append([]byte("again")))
	assert.Equal(t, 1, b.Len())
}

func TestScenario(t *testing.T) {
	b, err := New[int](0)
	require.NoError(t, err)

	for _, value := range []int{10, 20, 30, 40, 50} {
		require.NoError(t, b.Append(value))
	}

	assert.Equal(t, 8, b.Cap())
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, []int{10, 20, 30, 40, 50}, b.Data())

	require.NoError(t, b.Resize(2))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 10, *b.MustAt(0))
	assert.Equal(t, 20, *b.MustAt(1))

	require.NoError(t, b.Reserve(10))
	assert.Equal(t, 10, b.Cap())
	assert.Equal(t, 2, b.Len())
}

func TestIndexedAccess(t *testing.T) {
	b, err := New[int](8)
	require.NoError(t, err)
	require.NoError(t, b.Resize(3))

	ptr, err := b.At(1)
	require.NoError(t, err)

	*ptr = 42
	assert.Equal(t, []int{0, 42, 0}, b.Data())

	for _, index := range []int{-1, 3, 7, 8} {
		_, err := b.At(index)

		var indexErr *IndexError
		require.True(t, errors.As(err, &indexErr), "index=%d", index)
		assert.Equal(t, index, indexErr.Index)
		assert.Equal(t, 3, indexErr.Length)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}

	assert.ErrorIs(t, b.Set(3, 1), ErrIndexOutOfRange)

	assert.PanicsWithError(t, "dynarray: index 5 out of range [0, 3)", func() {
		b.MustAt(5)
	})
}

func TestMaxBytes(t *testing.T) {
	b, err := New[uint64](4, WithMaxBytes(48))
	require.NoError(t, err)

	for idx := range uint64(4) {
		require.NoError(t, b.Append(idx))
	}

	// growing to 8 elements needs 64 bytes
	err = b.Append(4)
	require.ErrorIs(t, err, ErrOutOfMemory)

	// nothing changed
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 4, b.Cap())
	assert.Equal(t, []uint64{0, 1, 2, 3}, b.Data())

	// an exact capacity within the limit still works
	require.NoError(t, b.Reserve(6))
	require.NoError(t, b.Append(4))
	assert.Equal(t, 6, b.Cap())

	_, err = New[uint64](10, WithMaxBytes(16))
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestAllocationFailure(t *testing.T) {
	_, err := New[int64](maxInt)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	// passes the overflow check but is rejected by the runtime
	_, err = New[byte](maxInt)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	var b Buffer[int64]
	assert.ErrorIs(t, b.Reserve(maxInt), ErrOutOfMemory)
	assert.Equal(t, 0, b.Cap())
}

func TestCloneIsDeep(t *testing.T) {
	b, err := New[int](10)
	require.NoError(t, err)
	for _, value := range []int{1, 2, 3} {
		require.NoError(t, b.Append(value))
	}

	c, err := b.Clone()
	require.NoError(t, err)

	require.NoError(t, c.Set(0, 100))

	assert.Equal(t, []int{1, 2, 3}, b.Data())
	assert.Equal(t, []int{100, 2, 3}, c.Data())
	assert.Equal(t, b.Cap(), c.Cap())

	// releasing one does not affect the other
	b.Release()
	assert.Equal(t, []int{100, 2, 3}, c.Data())
}

func TestCloneEmpty(t *testing.T) {
	var b Buffer[int]

	c, err := b.Clone()
	require.NoError(t, err)
	assert.Equal(t, 0, c.Cap())
}

func TestCloneFuncCopiesOwnedElements(t *testing.T) {
	var b Buffer[[]int]
	require.NoError(t, b.Append([]int{1, 2}))
	require.NoError(t, b.Append([]int{3}))

	c, err := b.CloneFunc(func(s []int) []int { return slices.Clone(s) })
	require.NoError(t, err)

	(*b.MustAt(0))[0] = 99

	assert.Equal(t, [][]int{{1, 2}, {3}}, c.Data())
}

func TestNestedBuffersSurviveGrowth(t *testing.T) {
	var outer Buffer[*Buffer[int]]

	for idx := range 9 {
		inner, err := New[int](0)
		require.NoError(t, err)
		require.NoError(t, inner.Append(idx))
		require.NoError(t, outer.Append(inner))
	}

	for idx, inner := range outer.All() {
		assert.Equal(t, []int{idx}, inner.Data())
	}
}

func TestTakeMovesOwnership(t *testing.T) {
	var b Buffer[int]
	for _, value := range []int{5, 6, 7} {
		require.NoError(t, b.Append(value))
	}

	moved := b.Take()

	assert.Equal(t, []int{5, 6, 7}, moved.Data())
	assert.Equal(t, 4, moved.Cap())

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Cap())
	assert.Nil(t, b.Data())

	// both can be released safely
	b.Release()
	moved.Release()
	moved.Release()
}

func TestDataIsCappedToLength(t *testing.T) {
	b, err := New[int](8)
	require.NoError(t, err)
	require.NoError(t, b.Append(1))

	data := b.Data()
	assert.Equal(t, 1, len(data))
	assert.Equal(t, 1, cap(data))

	_ = append(data, 2)
	assert.Equal(t, 0, b.entries[1])
}

func TestDataStableWithoutGrowth(t *testing.T) {
	b, err := New[int](4)
	require.NoError(t, err)

	require.NoError(t, b.Append(1))
	first := &b.Data()[0]

	for _, value := range []int{2, 3, 4} {
		require.NoError(t, b.Append(value))
	}

	assert.Same(t, first, &b.Data()[0])
}

func TestClearUnused(t *testing.T) {
	var b Buffer[int]
	for _, value := range []int{1, 2, 3, 4} {
		require.NoError(t, b.Append(value))
	}

	require.NoError(t, b.Resize(1))
	b.ClearUnused()

	assert.Equal(t, []int{1, 0, 0, 0}, b.entries)

	var empty Buffer[int]
	assert.NotPanics(t, empty.ClearUnused)
}

func TestAllStopsEarly(t *testing.T) {
	var b Buffer[int]
	require.NoError(t, b.Resize(10))

	var seen []int
	for idx := range b.All() {
		if idx == 3 {
			break
		}

		seen = append(seen, idx)
	}

	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestSizes(t *testing.T) {
	var b Buffer[[3]float32]
	require.NoError(t, b.Resize(5))

	assert.Equal(t, uintptr(12), b.ElementSize())
	assert.Equal(t, 60, b.SizeBytes())

	var empty Buffer[struct{}]
	require.NoError(t, empty.Resize(3))
	assert.Equal(t, 3, empty.Len())
	assert.Equal(t, 0, empty.SizeBytes())
}

func TestResizeFailureLeavesBufferUnchanged(t *testing.T) {
	b, err := New[uint64](0, WithMaxBytes(48))
	require.NoError(t, err)

	err = b.Resize(10)
	require.ErrorIs(t, err, ErrOutOfMemory)

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Cap())
	assert.Equal(t, 0, b.Reallocations())

	require.NoError(t, b.Append(7))
	require.NoError(t, b.Append(8))

	err = b.Resize(7)
	require.ErrorIs(t, err, ErrOutOfMemory)

	assert.Equal(t, []uint64{7, 8}, b.Data())
	assert.Equal(t, 2, b.Cap())
}

func TestResizeUpFollowsDoubling(t *testing.T) {
	var b Buffer[int]
	require.NoError(t, b.Resize(5))
	assert.Equal(t, 8, b.Cap())

	require.NoError(t, b.Resize(9))
	assert.Equal(t, 16, b.Cap())
	assert.Equal(t, 9, b.Len())
}

func TestReleaseResetsLikeTake(t *testing.T) {
	var released Buffer[int]
	var taken Buffer[int]

	for idx := range 5 {
		require.NoError(t, released.Append(idx))
		require.NoError(t, taken.Append(idx))
	}

	require.NotZero(t, released.Reallocations())

	released.Release()
	moved := taken.Take()
	defer moved.Release()

	assert.Zero(t, released.Reallocations())
	assert.Equal(t, released.Reallocations(), taken.Reallocations())
	assert.Equal(t, 4, moved.Reallocations())
}

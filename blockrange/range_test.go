package blockrange

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySet(t *testing.T) {
	s := NewSet()
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Contains(1))
	_, ok := s.Head()
	assert.False(t, ok)
}

func TestInsertRejectsEmptyOrZero(t *testing.T) {
	s := NewSet()
	_, err := s.Insert(Range{Start: 5, End: 4})
	assert.ErrorIs(t, err, ErrInvalidInsertion)

	_, err = s.Insert(Range{Start: 0, End: 0})
	assert.ErrorIs(t, err, ErrInvalidInsertion)
}

func TestInsertOverlap(t *testing.T) {
	s := NewSet()
	_, err := s.Insert(Range{Start: 1, End: 100})
	require.NoError(t, err)

	_, err = s.Insert(Range{Start: 101, End: 101})
	require.NoError(t, err)

	_, err = s.Insert(Range{Start: 101, End: 101})
	var overlap *OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, uint64(101), overlap.Lo)
	assert.Equal(t, uint64(101), overlap.Hi)

	_, err = s.Insert(Range{Start: 30, End: 30})
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, uint64(30), overlap.Lo)
	assert.Equal(t, uint64(30), overlap.Hi)
}

// TestRangeConsolidation exercises consolidation when inserting an adjacent range.
func TestRangeConsolidation(t *testing.T) {
	s := NewSet()
	inserts := []Range{
		{12, 13},
		{14, 16},
		{21, 21},
		{22, 26},
		{10, 11},
		{17, 20},
	}
	for _, r := range inserts {
		_, err := s.Insert(r)
		require.NoError(t, err)
	}
	assert.Equal(t, []Range{{10, 26}}, s.Ranges())
}

// TestInsertPermutationInvariant encodes the "Range insert round-trip"
// property: inserting a set of non-overlapping ranges in any
// permutation yields the same final range set.
func TestInsertPermutationInvariant(t *testing.T) {
	base := []Range{{1, 5}, {10, 15}, {20, 20}, {30, 40}, {50, 60}}

	want := NewSet()
	for _, r := range base {
		_, err := want.Insert(r)
		require.NoError(t, err)
	}

	for trial := 0; trial < 20; trial++ {
		perm := append([]Range(nil), base...)
		rand.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		got := NewSet()
		for _, r := range perm {
			_, err := got.Insert(r)
			require.NoError(t, err)
		}
		assert.Equal(t, want.Ranges(), got.Ranges())
	}
}

func TestBatchIter(t *testing.T) {
	s := NewSet()
	_, err := s.Insert(Range{1, 5})
	require.NoError(t, err)
	_, err = s.Insert(Range{10, 12})
	require.NoError(t, err)

	it := s.Iter()
	assert.Equal(t, []uint64{1, 2, 3}, it.Next(3))
	assert.Equal(t, []uint64{4, 5, 10}, it.Next(3))
	assert.Equal(t, []uint64{11, 12}, it.Next(3))
	assert.Empty(t, it.Next(3))
}

func TestTruncateHelpers(t *testing.T) {
	r := Range{Start: 100, End: 200}
	assert.Equal(t, Range{181, 200}, r.TruncateLeft(20))
	assert.Equal(t, Range{100, 119}, r.TruncateRight(20))
	assert.Equal(t, r, r.TruncateLeft(1000))
	assert.Equal(t, r, r.TruncateRight(1000))
}

package syncplan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/syncplan"
)

func setOf(t *testing.T, ranges ...blockrange.Range) *blockrange.Set {
	t.Helper()
	s := blockrange.NewSet()
	for _, r := range ranges {
		_, err := s.Insert(r)
		if err != nil {
			t.Fatalf("building test set: %v", err)
		}
	}
	return s
}

func TestNextToFetchHeaderLimit(t *testing.T) {
	head := uint64(1024)
	stored := setOf(t, blockrange.Range{Start: 256, End: 512})

	assert.Equal(t, blockrange.Range{Start: 513, End: 528}, syncplan.NextToFetch(head, stored, 16))
	assert.Equal(t, blockrange.Range{Start: 513, End: 1023}, syncplan.NextToFetch(head, stored, 511))
	assert.Equal(t, blockrange.Range{Start: 513, End: 1024}, syncplan.NextToFetch(head, stored, 512))
	assert.Equal(t, blockrange.Range{Start: 513, End: 1024}, syncplan.NextToFetch(head, stored, 513))
	assert.Equal(t, blockrange.Range{Start: 513, End: 1024}, syncplan.NextToFetch(head, stored, 1024))
}

func TestNextToFetchEmptyStore(t *testing.T) {
	empty := blockrange.NewSet()
	assert.Equal(t, blockrange.Range{Start: 1, End: 1}, syncplan.NextToFetch(1, empty, 100))
	assert.Equal(t, blockrange.Range{Start: 1, End: 10}, syncplan.NextToFetch(100, empty, 10))
	assert.Equal(t, blockrange.Range{Start: 1, End: 50}, syncplan.NextToFetch(100, empty, 50))
}

func TestNextToFetchFullySynced(t *testing.T) {
	assert.True(t, syncplan.NextToFetch(1, setOf(t, blockrange.Range{Start: 1, End: 1}), 100).IsEmpty())
	assert.True(t, syncplan.NextToFetch(100, setOf(t, blockrange.Range{Start: 1, End: 100}), 10).IsEmpty())
}

func TestNextToFetchCaughtUp(t *testing.T) {
	head := uint64(4000)

	assert.Equal(t, blockrange.Range{Start: 2500, End: 2999},
		syncplan.NextToFetch(head, setOf(t, blockrange.Range{Start: 3000, End: 4000}), 500))
	assert.Equal(t, blockrange.Range{Start: 2500, End: 2999},
		syncplan.NextToFetch(head, setOf(t, blockrange.Range{Start: 500, End: 1000}, blockrange.Range{Start: 3000, End: 4000}), 500))
	assert.Equal(t, blockrange.Range{Start: 2801, End: 2999},
		syncplan.NextToFetch(head, setOf(t, blockrange.Range{Start: 2500, End: 2800}, blockrange.Range{Start: 3000, End: 4000}), 500))
	assert.Equal(t, blockrange.Range{Start: 1, End: 299},
		syncplan.NextToFetch(head, setOf(t, blockrange.Range{Start: 300, End: 4000}), 500))
}

func TestNextToFetchCatchingUp(t *testing.T) {
	head := uint64(4000)

	assert.Equal(t, blockrange.Range{Start: 3001, End: 3500},
		syncplan.NextToFetch(head, setOf(t, blockrange.Range{Start: 2000, End: 3000}), 500))
	assert.Equal(t, blockrange.Range{Start: 3501, End: 4000},
		syncplan.NextToFetch(head, setOf(t, blockrange.Range{Start: 2000, End: 3500}), 500))
	assert.Equal(t, blockrange.Range{Start: 3801, End: 4000},
		syncplan.NextToFetch(head, setOf(t, blockrange.Range{Start: 1, End: 2998}, blockrange.Range{Start: 3000, End: 3800}), 500))
}

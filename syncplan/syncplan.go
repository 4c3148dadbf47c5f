// Package syncplan decides which height range a syncer should fetch next,
// given the network's current head height and the ranges already held in
// the header store.
package syncplan

import "github.com/tos-network/dasnode/blockrange"

// NextToFetch returns the next range of headers that should be downloaded,
// never longer than limit. The result is empty once the store is fully
// synced up to headHeight.
//
// Ranges are preferred in this order:
//  1. if the store is missing the most recent headers (a gap between the
//     highest stored range and headHeight), fetch forward from there;
//  2. otherwise, if an older gap exists below the highest stored range,
//     fetch backward to close it, trimmed from the left so the result
//     stays adjacent to what is already stored.
func NextToFetch(headHeight uint64, stored *blockrange.Set, limit uint64) blockrange.Range {
	r, fromLeft := mostRecentMissingRange(headHeight, stored)
	if fromLeft {
		return r.TruncateLeft(limit)
	}
	return r.TruncateRight(limit)
}

// mostRecentMissingRange returns the next range to fill and whether it
// should be trimmed from the left (syncing backward into existing history)
// as opposed to the right (syncing forward to the network head).
func mostRecentMissingRange(headHeight uint64, stored *blockrange.Set) (blockrange.Range, bool) {
	ranges := stored.Ranges()
	if len(ranges) == 0 {
		return blockrange.Range{Start: 1, End: headHeight}, false
	}

	headRange := ranges[len(ranges)-1]
	if headRange.End < headHeight {
		return blockrange.Range{Start: headRange.End + 1, End: headHeight}, false
	}

	var penultimateEnd uint64
	if len(ranges) > 1 {
		penultimateEnd = ranges[len(ranges)-2].End
	}

	return blockrange.Range{Start: penultimateEnd + 1, End: headRange.Start - 1}, true
}

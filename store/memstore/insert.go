package memstore

import (
	"fmt"

	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/store"
)

// insert implements both the verified Insert path and the unchecked
// AppendUnchecked path, sharing the same bookkeeping: duplicate detection,
// range-set update, and waking waiters.
func (s *Store) insert(headers []header.ExtendedHeader, verifyNeighbours, runChecks bool) (int, error) {
	if len(headers) == 0 {
		return 0, store.ErrInvalidHeadersRange
	}
	for _, h := range headers {
		if h.Height() == 0 {
			return 0, store.ErrInvalidHeadersRange
		}
	}
	for i := 1; i < len(headers); i++ {
		if headers[i].Height() != headers[i-1].Height()+1 {
			return 0, store.ErrInsertRangeWithGap
		}
	}

	if runChecks {
		if err := header.ValidateBatch(headers); err != nil {
			return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if runChecks && verifyNeighbours {
		lo, hi := headers[0].Height(), headers[len(headers)-1].Height()

		if lo > 1 && s.ranges.Contains(lo-1) {
			left := s.byHeight[lo-1]
			if err := left.Verify(headers[0]); err != nil {
				return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
			}
		}
		if len(headers) > 1 {
			if err := headers[0].VerifyAdjacentRange(headers[1:]); err != nil {
				return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
			}
		}
		if s.ranges.Contains(hi + 1) {
			right := s.byHeight[hi+1]
			if err := headers[len(headers)-1].Verify(right); err != nil {
				return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
			}
		}
	}

	for _, h := range headers {
		if _, exists := s.byHeight[h.Height()]; exists {
			return 0, store.ErrHeightExists
		}
		if _, exists := s.byHash[h.Hash()]; exists {
			return 0, store.ErrHashExists
		}
	}

	insertRange := blockrange.Range{Start: headers[0].Height(), End: headers[len(headers)-1].Height()}
	if _, err := s.ranges.Insert(insertRange); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrInsertPlacementDisallowed, err)
	}

	for _, h := range headers {
		s.byHeight[h.Height()] = h
		s.byHash[h.Hash()] = h.Height()
	}

	s.headerAdded.Broadcast()
	return len(headers), nil
}

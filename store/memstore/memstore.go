// Package memstore implements the header store contract entirely in
// memory: mutex-guarded maps plus a blockrange.Set tracking which heights
// are held, and a notify.Cond waking blocked waiters whenever new headers
// land.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/internal/notify"
	"github.com/tos-network/dasnode/store"
)

var _ store.Store = (*Store)(nil)

// Store is an in-memory, non-persistent implementation of store.Store.
// Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	byHeight map[uint64]header.ExtendedHeader
	byHash   map[header.Hash]uint64
	sampling map[uint64]store.SamplingMetadata
	ranges   *blockrange.Set

	headerAdded *notify.Cond
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byHeight:    make(map[uint64]header.ExtendedHeader),
		byHash:      make(map[header.Hash]uint64),
		sampling:    make(map[uint64]store.SamplingMetadata),
		ranges:      blockrange.NewSet(),
		headerAdded: notify.New(),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) GetByHash(_ context.Context, hash header.Hash) (header.ExtendedHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	height, ok := s.byHash[hash]
	if !ok {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	eh, ok := s.byHeight[height]
	if !ok {
		return header.ExtendedHeader{}, store.ErrLostHeight
	}
	return eh, nil
}

func (s *Store) GetByHeight(_ context.Context, height uint64) (header.ExtendedHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	eh, ok := s.byHeight[height]
	if !ok {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	return eh, nil
}

func (s *Store) Head(ctx context.Context) (header.ExtendedHeader, error) {
	height, err := s.HeadHeight(ctx)
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	if height == 0 {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	return s.GetByHeight(ctx, height)
}

func (s *Store) HeadHeight(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	head, ok := s.ranges.Head()
	if !ok {
		return 0, nil
	}
	return head, nil
}

func (s *Store) Has(_ context.Context, hash header.Hash) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byHash[hash]
	return ok, nil
}

func (s *Store) HasAt(_ context.Context, height uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ranges.Contains(height), nil
}

func (s *Store) GetRange(_ context.Context, from, to store.Bound) ([]header.ExtendedHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	heights := make([]uint64, 0, len(s.byHeight))
	for h := range s.byHeight {
		heights = append(heights, h)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })

	out := make([]header.ExtendedHeader, 0, len(heights))
	for _, h := range heights {
		if from.IncludesAsLower(h) && to.IncludesAsUpper(h) {
			out = append(out, s.byHeight[h])
		}
	}
	return out, nil
}

func (s *Store) GetRangeByHeight(ctx context.Context, from, to uint64) ([]header.ExtendedHeader, error) {
	return s.GetRange(ctx, store.Bound{Height: from, Inclusive: true}, store.Bound{Height: to, Inclusive: true})
}

func (s *Store) WaitHeight(ctx context.Context, height uint64) (header.ExtendedHeader, error) {
	for {
		ch := s.headerAdded.Chan()

		s.mu.RLock()
		eh, ok := s.byHeight[height]
		s.mu.RUnlock()
		if ok {
			return eh, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return header.ExtendedHeader{}, ctx.Err()
		}
	}
}

func (s *Store) Append(ctx context.Context, headers ...header.ExtendedHeader) (int, error) {
	return s.Insert(ctx, headers, true)
}

func (s *Store) AppendUnchecked(ctx context.Context, headers ...header.ExtendedHeader) (int, error) {
	return s.insert(headers, false, false)
}

func (s *Store) Insert(_ context.Context, headers []header.ExtendedHeader, verifyNeighbours bool) (int, error) {
	return s.insert(headers, verifyNeighbours, true)
}

func (s *Store) NextUnsampledHeight(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	head, ok := s.ranges.Head()
	if !ok {
		return 0, nil
	}
	for h := uint64(1); h <= head; h++ {
		if _, sampled := s.sampling[h]; !sampled {
			return h, nil
		}
	}
	return head + 1, nil
}

func (s *Store) UpdateSamplingMetadata(_ context.Context, height uint64, meta store.SamplingMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ranges.Contains(height) {
		return store.ErrNotFound
	}
	s.sampling[height] = store.MergeSamplingMetadata(s.sampling[height], meta)
	return nil
}

func (s *Store) GetSamplingMetadata(_ context.Context, height uint64) (store.SamplingMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.sampling[height]
	if !ok {
		return store.SamplingMetadata{}, store.ErrNotFound
	}
	return meta, nil
}

func (s *Store) GetStoredHeaderRanges(_ context.Context) (*blockrange.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return blockrange.NewSetFromRanges(s.ranges.Ranges()), nil
}

package leveldbstore

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/store"
)

func (s *Store) Append(ctx context.Context, headers ...header.ExtendedHeader) (int, error) {
	return s.Insert(ctx, headers, true)
}

func (s *Store) AppendUnchecked(ctx context.Context, headers ...header.ExtendedHeader) (int, error) {
	return s.insert(headers, false, false)
}

func (s *Store) Insert(_ context.Context, headers []header.ExtendedHeader, verifyNeighbours bool) (int, error) {
	return s.insert(headers, verifyNeighbours, true)
}

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

	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	ranges, err := s.loadRanges()
	if err != nil {
		return 0, err
	}

	if runChecks && verifyNeighbours {
		lo, hi := headers[0].Height(), headers[len(headers)-1].Height()

		if lo > 1 && ranges.Contains(lo-1) {
			left, err := s.loadHeader(lo - 1)
			if err != nil {
				return 0, err
			}
			if err := left.Verify(headers[0]); err != nil {
				return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
			}
		}
		if len(headers) > 1 {
			if err := headers[0].VerifyAdjacentRange(headers[1:]); err != nil {
				return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
			}
		}
		if ranges.Contains(hi + 1) {
			right, err := s.loadHeader(hi + 1)
			if err != nil {
				return 0, err
			}
			if err := headers[len(headers)-1].Verify(right); err != nil {
				return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
			}
		}
	}

	for _, h := range headers {
		if exists, err := s.db.Has(headerKey(h.Height()), nil); err != nil {
			return 0, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
		} else if exists {
			return 0, store.ErrHeightExists
		}
		if exists, err := s.db.Has(hashKey(h.Hash()), nil); err != nil {
			return 0, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
		} else if exists {
			return 0, store.ErrHashExists
		}
	}

	insertRange := blockrange.Range{Start: headers[0].Height(), End: headers[len(headers)-1].Height()}
	if _, err := ranges.Insert(insertRange); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrInsertPlacementDisallowed, err)
	}

	batch := new(leveldb.Batch)
	for _, h := range headers {
		batch.Put(headerKey(h.Height()), store.EncodeHeader(h))

		var heightBuf [8]byte
		binary.BigEndian.PutUint64(heightBuf[:], h.Height())
		batch.Put(hashKey(h.Hash()), heightBuf[:])
	}
	batch.Put([]byte(rangesKey), encodeRanges(ranges.Ranges()))

	if err := s.db.Write(batch, nil); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}

	for _, h := range headers {
		s.cache.Add(h.Height(), h)
	}

	s.headerAdded.Broadcast()
	return len(headers), nil
}

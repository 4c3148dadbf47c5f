//go:build js && wasm

package jsstore

import (
	"context"
	"fmt"

	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/store"
)

func headerRecord(eh header.ExtendedHeader) map[string]any {
	return map[string]any{
		"height": float64(eh.Height()),
		"hash":   eh.Hash().String(),
		"header": bytesToJS(store.EncodeHeader(eh)),
	}
}

func (s *Store) GetByHeight(ctx context.Context, height uint64) (header.ExtendedHeader, error) {
	tx := s.transaction("readonly", headerStoreName)
	req := tx.Call("objectStore", headerStoreName).Call("get", float64(height))
	result, err := awaitRequest(ctx, req)
	if err != nil {
		return header.ExtendedHeader{}, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	if result.IsUndefined() || result.IsNull() {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	return store.DecodeHeader(jsToBytes(result.Get("header")))
}

func (s *Store) GetByHash(ctx context.Context, hash header.Hash) (header.ExtendedHeader, error) {
	tx := s.transaction("readonly", headerStoreName)
	idx := tx.Call("objectStore", headerStoreName).Call("index", hashIndexName)
	req := idx.Call("get", hash.String())
	result, err := awaitRequest(ctx, req)
	if err != nil {
		return header.ExtendedHeader{}, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	if result.IsUndefined() || result.IsNull() {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	return store.DecodeHeader(jsToBytes(result.Get("header")))
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
	s.mu.Lock()
	defer s.mu.Unlock()
	head, ok := s.cachedRanges.Head()
	if !ok {
		return 0, nil
	}
	return head, nil
}

func (s *Store) Has(ctx context.Context, hash header.Hash) (bool, error) {
	_, err := s.GetByHash(ctx, hash)
	if err == store.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) HasAt(_ context.Context, height uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedRanges.Contains(height), nil
}

func (s *Store) GetRange(ctx context.Context, from, to store.Bound) ([]header.ExtendedHeader, error) {
	s.mu.Lock()
	head, ok := s.cachedRanges.Head()
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var out []header.ExtendedHeader
	for h := uint64(1); h <= head; h++ {
		if !from.IncludesAsLower(h) || !to.IncludesAsUpper(h) {
			continue
		}
		eh, err := s.GetByHeight(ctx, h)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, eh)
	}
	return out, nil
}

func (s *Store) GetRangeByHeight(ctx context.Context, from, to uint64) ([]header.ExtendedHeader, error) {
	return s.GetRange(ctx, store.Bound{Height: from, Inclusive: true}, store.Bound{Height: to, Inclusive: true})
}

func (s *Store) WaitHeight(ctx context.Context, height uint64) (header.ExtendedHeader, error) {
	for {
		ch := s.headerAdded.Chan()

		eh, err := s.GetByHeight(ctx, height)
		if err == nil {
			return eh, nil
		}
		if err != store.ErrNotFound {
			return header.ExtendedHeader{}, err
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return header.ExtendedHeader{}, ctx.Err()
		}
	}
}

func (s *Store) NextUnsampledHeight(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	head, ok := s.cachedRanges.Head()
	s.mu.Unlock()
	if !ok {
		return 0, nil
	}
	for h := uint64(1); h <= head; h++ {
		tx := s.transaction("readonly", samplingStoreName)
		req := tx.Call("objectStore", samplingStoreName).Call("get", float64(h))
		result, err := awaitRequest(ctx, req)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
		}
		if result.IsUndefined() || result.IsNull() {
			return h, nil
		}
	}
	return head + 1, nil
}

func (s *Store) UpdateSamplingMetadata(ctx context.Context, height uint64, meta store.SamplingMetadata) error {
	s.mu.Lock()
	contains := s.cachedRanges.Contains(height)
	s.mu.Unlock()
	if !contains {
		return store.ErrNotFound
	}

	existing, err := s.GetSamplingMetadata(ctx, height)
	if err != nil && err != store.ErrNotFound {
		return err
	}
	merged := store.MergeSamplingMetadata(existing, meta)

	tx := s.transaction("readwrite", samplingStoreName)
	record := map[string]any{
		"height":  float64(height),
		"encoded": bytesToJS(store.EncodeSamplingMetadata(merged)),
	}
	req := tx.Call("objectStore", samplingStoreName).Call("put", record)
	if _, err := awaitRequest(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	return nil
}

func (s *Store) GetSamplingMetadata(ctx context.Context, height uint64) (store.SamplingMetadata, error) {
	tx := s.transaction("readonly", samplingStoreName)
	req := tx.Call("objectStore", samplingStoreName).Call("get", float64(height))
	result, err := awaitRequest(ctx, req)
	if err != nil {
		return store.SamplingMetadata{}, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	if result.IsUndefined() || result.IsNull() {
		return store.SamplingMetadata{}, store.ErrNotFound
	}
	return store.DecodeSamplingMetadata(jsToBytes(result.Get("encoded")))
}

func (s *Store) GetStoredHeaderRanges(_ context.Context) (*blockrange.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return blockrange.NewSetFromRanges(s.cachedRanges.Ranges()), nil
}

func (s *Store) Append(ctx context.Context, headers ...header.ExtendedHeader) (int, error) {
	return s.Insert(ctx, headers, true)
}

func (s *Store) AppendUnchecked(ctx context.Context, headers ...header.ExtendedHeader) (int, error) {
	return s.insert(ctx, headers, false, false)
}

func (s *Store) Insert(ctx context.Context, headers []header.ExtendedHeader, verifyNeighbours bool) (int, error) {
	return s.insert(ctx, headers, verifyNeighbours, true)
}

func (s *Store) insert(ctx context.Context, headers []header.ExtendedHeader, verifyNeighbours, runChecks bool) (int, error) {
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
	ranges := blockrange.NewSetFromRanges(s.cachedRanges.Ranges())
	s.mu.Unlock()

	if runChecks && verifyNeighbours {
		lo, hi := headers[0].Height(), headers[len(headers)-1].Height()

		if lo > 1 && ranges.Contains(lo-1) {
			left, err := s.GetByHeight(ctx, lo-1)
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
			right, err := s.GetByHeight(ctx, hi+1)
			if err != nil {
				return 0, err
			}
			if err := headers[len(headers)-1].Verify(right); err != nil {
				return 0, fmt.Errorf("%w: %v", store.ErrHeaderChecks, err)
			}
		}
	}

	for _, h := range headers {
		if _, err := s.GetByHeight(ctx, h.Height()); err == nil {
			return 0, store.ErrHeightExists
		}
		if _, err := s.GetByHash(ctx, h.Hash()); err == nil {
			return 0, store.ErrHashExists
		}
	}

	insertRange := blockrange.Range{Start: headers[0].Height(), End: headers[len(headers)-1].Height()}
	if _, err := ranges.Insert(insertRange); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrInsertPlacementDisallowed, err)
	}

	tx := s.transaction("readwrite", headerStoreName)
	objStore := tx.Call("objectStore", headerStoreName)
	for _, h := range headers {
		req := objStore.Call("put", headerRecord(h))
		if _, err := awaitRequest(ctx, req); err != nil {
			return 0, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
		}
	}

	if err := s.putRanges(ctx, ranges); err != nil {
		return 0, err
	}

	s.headerAdded.Broadcast()
	return len(headers), nil
}

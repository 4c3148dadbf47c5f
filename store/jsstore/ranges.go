//go:build js && wasm

package jsstore

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/store"
)

// rangesRecordKey is the single key under which the whole stored-range set
// is kept in the ranges object store; there is exactly one record.
const rangesRecordKey = "current"

func (s *Store) loadRangesFromDB(ctx context.Context) (*blockrange.Set, error) {
	tx := s.transaction("readonly", rangesStoreName)
	req := tx.Call("objectStore", rangesStoreName).Call("get", rangesRecordKey)
	result, err := awaitRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	if result.IsUndefined() || result.IsNull() {
		return blockrange.NewSet(), nil
	}

	encoded := jsToBytes(result.Get("encoded"))
	ranges, err := decodeRangesJS(encoded)
	if err != nil {
		return nil, err
	}
	return blockrange.NewSetFromRanges(ranges), nil
}

func (s *Store) putRanges(ctx context.Context, set *blockrange.Set) error {
	tx := s.transaction("readwrite", rangesStoreName)
	record := map[string]any{"encoded": bytesToJS(encodeRangesJS(set.Ranges()))}
	req := tx.Call("objectStore", rangesStoreName).Call("put", record, rangesRecordKey)
	if _, err := awaitRequest(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	s.mu.Lock()
	s.cachedRanges = blockrange.NewSetFromRanges(set.Ranges())
	s.mu.Unlock()
	return nil
}

func (s *Store) latestHeaderHeight(ctx context.Context) (uint64, error) {
	tx := s.transaction("readonly", headerStoreName)
	idx := tx.Call("objectStore", headerStoreName).Call("index", heightIndexName)
	cursorReq := idx.Call("openCursor", js.Null(), "prev")
	result, err := awaitRequest(ctx, cursorReq)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	if result.IsUndefined() || result.IsNull() {
		return 0, store.ErrNotFound
	}
	return uint64(result.Get("value").Get("height").Float()), nil
}

func encodeRangesJS(ranges []blockrange.Range) []byte {
	buf := make([]byte, 0, len(ranges)*16)
	for _, r := range ranges {
		buf = appendUint64(buf, r.Start)
		buf = appendUint64(buf, r.End)
	}
	return buf
}

func decodeRangesJS(buf []byte) ([]blockrange.Range, error) {
	if len(buf)%16 != 0 {
		return nil, store.ErrStoredData
	}
	out := make([]blockrange.Range, 0, len(buf)/16)
	for i := 0; i < len(buf); i += 16 {
		out = append(out, blockrange.Range{
			Start: readUint64(buf[i : i+8]),
			End:   readUint64(buf[i+8 : i+16]),
		})
	}
	return out, nil
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	return append(buf, tmp[:]...)
}

func readUint64(buf []byte) uint64 {
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v
}

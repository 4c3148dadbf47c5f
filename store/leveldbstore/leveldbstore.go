// Package leveldbstore implements the header store contract on top of an
// embedded goleveldb database: a headers table keyed by height, a secondary
// hash index, a sampling metadata table, and a single key holding the
// serialized stored-range set. Inserts update all three under one write
// batch so a crash mid-insert never leaves the range index pointing at a
// header that was never durably written.
package leveldbstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/internal/notify"
	"github.com/tos-network/dasnode/store"
)

// ErrCorruptRanges is returned when the persisted range-set record cannot be
// parsed.
var ErrCorruptRanges = errors.New("leveldbstore: corrupt stored ranges record")

// headerCacheSize bounds the decoded-header read cache. Headers are
// immutable once stored, so a plain LRU with no invalidation is sufficient.
const headerCacheSize = 512

var _ store.Store = (*Store)(nil)

// Store is an on-disk implementation of store.Store backed by goleveldb.
type Store struct {
	// insertMu serializes Insert/AppendUnchecked calls so the
	// read-modify-write of the ranges record stays linearizable; goleveldb
	// itself has no multi-key transactions, so this mutex plays that role.
	insertMu sync.Mutex

	db    *leveldb.DB
	cache *lru.Cache

	headerAdded *notify.Cond
}

// Open opens (creating if absent) a goleveldb database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrOpenFailed, err)
	}
	cache, err := lru.New(headerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrOpenFailed, err)
	}
	return &Store{db: db, cache: cache, headerAdded: notify.New()}, nil
}

// NewWithDB wraps an already-open goleveldb handle, letting callers (tests,
// or an embedder with its own storage.Storage) supply the database and
// cache directly instead of going through Open.
func NewWithDB(db *leveldb.DB, cache *lru.Cache) (*Store, error) {
	if cache == nil {
		var err error
		cache, err = lru.New(headerCacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrOpenFailed, err)
		}
	}
	return &Store{db: db, cache: cache, headerAdded: notify.New()}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	return nil
}

func (s *Store) loadHeader(height uint64) (header.ExtendedHeader, error) {
	if v, ok := s.cache.Get(height); ok {
		return v.(header.ExtendedHeader), nil
	}
	buf, err := s.db.Get(headerKey(height), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	if err != nil {
		return header.ExtendedHeader{}, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	eh, err := store.DecodeHeader(buf)
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	s.cache.Add(height, eh)
	return eh, nil
}

func (s *Store) GetByHeight(_ context.Context, height uint64) (header.ExtendedHeader, error) {
	return s.loadHeader(height)
}

func (s *Store) GetByHash(_ context.Context, hash header.Hash) (header.ExtendedHeader, error) {
	buf, err := s.db.Get(hashKey(hash), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	if err != nil {
		return header.ExtendedHeader{}, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	if len(buf) != 8 {
		return header.ExtendedHeader{}, store.ErrStoredData
	}
	height := binary.BigEndian.Uint64(buf)
	eh, err := s.loadHeader(height)
	if errors.Is(err, store.ErrNotFound) {
		return header.ExtendedHeader{}, store.ErrLostHeight
	}
	return eh, err
}

func (s *Store) loadRanges() (*blockrange.Set, error) {
	buf, err := s.db.Get([]byte(rangesKey), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return blockrange.NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	ranges, err := decodeRanges(buf)
	if err != nil {
		return nil, err
	}
	return blockrange.NewSetFromRanges(ranges), nil
}

func (s *Store) Head(ctx context.Context) (header.ExtendedHeader, error) {
	height, err := s.HeadHeight(ctx)
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	if height == 0 {
		return header.ExtendedHeader{}, store.ErrNotFound
	}
	return s.loadHeader(height)
}

func (s *Store) HeadHeight(_ context.Context) (uint64, error) {
	ranges, err := s.loadRanges()
	if err != nil {
		return 0, err
	}
	head, ok := ranges.Head()
	if !ok {
		return 0, nil
	}
	return head, nil
}

func (s *Store) Has(_ context.Context, hash header.Hash) (bool, error) {
	ok, err := s.db.Has(hashKey(hash), nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	return ok, nil
}

func (s *Store) HasAt(_ context.Context, height uint64) (bool, error) {
	ranges, err := s.loadRanges()
	if err != nil {
		return false, err
	}
	return ranges.Contains(height), nil
}

func (s *Store) GetRange(_ context.Context, from, to store.Bound) ([]header.ExtendedHeader, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixHeaderByHeight}), nil)
	defer iter.Release()

	var out []header.ExtendedHeader
	for iter.Next() {
		height := heightFromHeaderKey(iter.Key())
		if !from.IncludesAsLower(height) || !to.IncludesAsUpper(height) {
			continue
		}
		eh, err := store.DecodeHeader(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, eh)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	return out, nil
}

func (s *Store) GetRangeByHeight(ctx context.Context, from, to uint64) ([]header.ExtendedHeader, error) {
	return s.GetRange(ctx, store.Bound{Height: from, Inclusive: true}, store.Bound{Height: to, Inclusive: true})
}

func (s *Store) WaitHeight(ctx context.Context, height uint64) (header.ExtendedHeader, error) {
	for {
		ch := s.headerAdded.Chan()

		eh, err := s.loadHeader(height)
		if err == nil {
			return eh, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return header.ExtendedHeader{}, err
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return header.ExtendedHeader{}, ctx.Err()
		}
	}
}

func (s *Store) NextUnsampledHeight(_ context.Context) (uint64, error) {
	ranges, err := s.loadRanges()
	if err != nil {
		return 0, err
	}
	head, ok := ranges.Head()
	if !ok {
		return 0, nil
	}
	for h := uint64(1); h <= head; h++ {
		has, err := s.db.Has(samplingKey(h), nil)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
		}
		if !has && ranges.Contains(h) {
			return h, nil
		}
	}
	return head + 1, nil
}

func (s *Store) UpdateSamplingMetadata(_ context.Context, height uint64, meta store.SamplingMetadata) error {
	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	ranges, err := s.loadRanges()
	if err != nil {
		return err
	}
	if !ranges.Contains(height) {
		return store.ErrNotFound
	}

	existing, err := s.getSamplingMetadata(height)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	merged := store.MergeSamplingMetadata(existing, meta)
	if err := s.db.Put(samplingKey(height), store.EncodeSamplingMetadata(merged), nil); err != nil {
		return fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	return nil
}

func (s *Store) GetSamplingMetadata(_ context.Context, height uint64) (store.SamplingMetadata, error) {
	return s.getSamplingMetadata(height)
}

func (s *Store) getSamplingMetadata(height uint64) (store.SamplingMetadata, error) {
	buf, err := s.db.Get(samplingKey(height), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return store.SamplingMetadata{}, store.ErrNotFound
	}
	if err != nil {
		return store.SamplingMetadata{}, fmt.Errorf("%w: %v", store.ErrFatalDatabase, err)
	}
	return store.DecodeSamplingMetadata(buf)
}

func (s *Store) GetStoredHeaderRanges(_ context.Context) (*blockrange.Set, error) {
	return s.loadRanges()
}

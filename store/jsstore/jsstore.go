//go:build js && wasm

// Package jsstore implements the header store contract on top of the
// browser's IndexedDB, for use when this module is compiled to
// js/wasm. It talks to IndexedDB directly through syscall/js: no Go
// ecosystem library in the module's dependency set wraps IndexedDB, so this
// is the one backend built on the standard library rather than a
// third-party client (see DESIGN.md).
//
// IndexedDB callbacks all run on the single JS event-loop thread. Goroutines
// can still interleave while one of them waits on a request, so the cached
// range set is guarded by a mutex.
package jsstore

import (
	"context"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/internal/notify"
	"github.com/tos-network/dasnode/store"
)

// schemaVersion must be bumped whenever the object store layout below
// changes, so Open can run a migration instead of silently misreading an
// older database.
const schemaVersion = 2

const (
	headerStoreName   = "headers"
	samplingStoreName = "sampling"
	rangesStoreName   = "ranges"
	hashIndexName     = "hash"
	heightIndexName   = "height"
)

var _ store.Store = (*Store)(nil)

// Store is an IndexedDB-backed implementation of store.Store.
type Store struct {
	dbName string
	db     js.Value

	// cachedRanges mirrors the "ranges" object store so HeadHeight and
	// HasAt don't need a round trip through IndexedDB's async API on
	// every call; it is kept in lockstep by putRanges and set by Open.
	mu           sync.Mutex
	cachedRanges *blockrange.Set

	headerAdded *notify.Cond
}

// Open opens or creates the named IndexedDB database, running the
// object-store migration if it does not exist yet or predates
// schemaVersion.
func Open(ctx context.Context, dbName string) (*Store, error) {
	s := &Store{dbName: dbName, headerAdded: notify.New()}

	db, err := openDatabase(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrOpenFailed, err)
	}
	s.db = db

	ranges, err := s.loadRangesFromDB(ctx)
	if err != nil {
		return nil, err
	}
	if ranges.IsEmpty() {
		// Migration from a pre-ranges schema: if a head header exists but
		// no range record does, derive a single [1, head] range from it
		// rather than losing track of the already-downloaded history.
		head, err := s.latestHeaderHeight(ctx)
		if err == nil && head > 0 {
			if _, err := ranges.Insert(blockrange.Range{Start: 1, End: head}); err != nil {
				return nil, fmt.Errorf("%w: %v", store.ErrOpenFailed, err)
			}
			if err := s.putRanges(ctx, ranges); err != nil {
				return nil, err
			}
		}
	}
	s.cachedRanges = ranges

	return s, nil
}

func (s *Store) Close() error {
	return nil
}

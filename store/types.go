package store

import (
	"context"

	"github.com/ipfs/go-cid"
	"github.com/tos-network/dasnode/blockrange"
	"github.com/tos-network/dasnode/header"
)

// SamplingMetadata records the outcome of data availability sampling for a
// single header: whether sampling accepted the header, and which sample
// CIDs were fetched and verified to reach that verdict.
type SamplingMetadata struct {
	Accepted    bool
	CIDsSampled []cid.Cid
}

// MergeSamplingMetadata combines an incoming sampling result with whatever
// was already recorded for a height: CIDs are unioned and deduplicated, and
// Accepted is overwritten by the incoming verdict. Backends must read the
// existing metadata (if any) and pass it as existing before persisting
// update, so repeated sampling rounds accumulate CIDs instead of discarding
// earlier ones.
func MergeSamplingMetadata(existing, update SamplingMetadata) SamplingMetadata {
	seen := make(map[cid.Cid]struct{}, len(existing.CIDsSampled)+len(update.CIDsSampled))
	merged := make([]cid.Cid, 0, len(existing.CIDsSampled)+len(update.CIDsSampled))
	for _, c := range existing.CIDsSampled {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range update.CIDsSampled {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}
	return SamplingMetadata{Accepted: update.Accepted, CIDsSampled: merged}
}

// Bound describes one end of a height range query.
type Bound struct {
	// Height is ignored when Unbounded is true.
	Height    uint64
	Inclusive bool
	Unbounded bool
}

// IncludesAsLower returns true if height satisfies b used as a lower bound.
func (b Bound) IncludesAsLower(height uint64) bool {
	if b.Unbounded {
		return true
	}
	if b.Inclusive {
		return height >= b.Height
	}
	return height > b.Height
}

// IncludesAsUpper returns true if height satisfies b used as an upper bound.
func (b Bound) IncludesAsUpper(height uint64) bool {
	if b.Unbounded {
		return true
	}
	if b.Inclusive {
		return height <= b.Height
	}
	return height < b.Height
}

// Store is the contract every header store backend (in-memory, on-disk,
// browser) implements identically. Implementations must be safe for
// concurrent use and must serialize inserts so stored ranges stay disjoint
// and ordered (see blockrange.Set).
type Store interface {
	// GetByHash returns the header with the given hash.
	GetByHash(ctx context.Context, hash header.Hash) (header.ExtendedHeader, error)
	// GetByHeight returns the header at the given height.
	GetByHeight(ctx context.Context, height uint64) (header.ExtendedHeader, error)
	// Head returns the header at HeadHeight.
	Head(ctx context.Context) (header.ExtendedHeader, error)
	// HeadHeight returns the end of the highest stored range (gaps below it
	// do not lower the result), or 0 if the store is empty.
	HeadHeight(ctx context.Context) (uint64, error)
	// Has reports whether a header with the given hash is stored.
	Has(ctx context.Context, hash header.Hash) (bool, error)
	// HasAt reports whether a header at the given height is stored.
	HasAt(ctx context.Context, height uint64) (bool, error)
	// GetRange returns stored headers whose height falls between from and
	// to, each end being inclusive, exclusive or unbounded as its Bound says.
	GetRange(ctx context.Context, from, to Bound) ([]header.ExtendedHeader, error)
	// GetRangeByHeight is a convenience equivalent to GetRange with two
	// concrete inclusive heights.
	GetRangeByHeight(ctx context.Context, from, to uint64) ([]header.ExtendedHeader, error)
	// WaitHeight blocks until a header at the given height is stored or
	// ctx is done.
	WaitHeight(ctx context.Context, height uint64) (header.ExtendedHeader, error)
	// Insert appends headers to the store. If verifyNeighbours is true,
	// each header is checked against its predecessor via Verify/adjacency
	// before being admitted; if false, only structural Validate runs.
	// Insert returns the number of headers actually appended.
	Insert(ctx context.Context, headers []header.ExtendedHeader, verifyNeighbours bool) (int, error)
	// Append is a convenience wrapper for Insert with neighbor verification
	// enabled. The batch need not be contiguous with the current head.
	Append(ctx context.Context, headers ...header.ExtendedHeader) (int, error)
	// AppendUnchecked stores headers without structural or neighbor
	// verification. Intended for tests and migrations only.
	AppendUnchecked(ctx context.Context, headers ...header.ExtendedHeader) (int, error)
	// NextUnsampledHeight returns the lowest stored height that has not yet
	// had sampling metadata recorded for it.
	NextUnsampledHeight(ctx context.Context) (uint64, error)
	// UpdateSamplingMetadata records the sampling outcome for a height.
	UpdateSamplingMetadata(ctx context.Context, height uint64, meta SamplingMetadata) error
	// GetSamplingMetadata returns the sampling outcome for a height.
	GetSamplingMetadata(ctx context.Context, height uint64) (SamplingMetadata, error)
	// GetStoredHeaderRanges returns the disjoint height ranges currently
	// held by the store.
	GetStoredHeaderRanges(ctx context.Context) (*blockrange.Set, error)
	// Close releases any resources held by the backend.
	Close() error
}

package leveldbstore_test

import (
	"context"
	"testing"

	lru "github.com/hashicorp/golang-lru"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/header/headertest"
	"github.com/tos-network/dasnode/store"
	"github.com/tos-network/dasnode/store/leveldbstore"
)

// openMem constructs a Store backed by an in-memory leveldb instance, the
// same pattern the wider pack uses for exercising a goleveldb-backed store
// without touching disk.
func openMem(t *testing.T) *leveldbstore.Store {
	t.Helper()
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	cache, err := lru.New(64)
	require.NoError(t, err)
	s, err := leveldbstore.NewWithDB(db, cache)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLevelDBAppendAndGet(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	gen := headertest.New()
	headers := gen.NextMany(5)

	n, err := s.Append(ctx, headers...)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	head, err := s.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), head.Height())

	got, err := s.GetByHash(ctx, headers[2].Hash())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Height())
}

func TestLevelDBPersistsRanges(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	gen := headertest.New()
	headers := gen.NextMany(4)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	ranges, err := s.GetStoredHeaderRanges(ctx)
	require.NoError(t, err)
	require.Len(t, ranges.Ranges(), 1)
	assert.Equal(t, uint64(1), ranges.Ranges()[0].Start)
	assert.Equal(t, uint64(4), ranges.Ranges()[0].End)
}

func TestLevelDBSamplingMetadata(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	gen := headertest.New()
	headers := gen.NextMany(2)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	next, err := s.NextUnsampledHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	require.NoError(t, s.UpdateSamplingMetadata(ctx, 1, store.SamplingMetadata{Accepted: true}))

	meta, err := s.GetSamplingMetadata(ctx, 1)
	require.NoError(t, err)
	assert.True(t, meta.Accepted)
}

func TestLevelDBRejectsDuplicateHeight(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	gen := headertest.New()
	headers := gen.NextMany(2)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	_, err = s.AppendUnchecked(ctx, headers[0])
	assert.ErrorIs(t, err, store.ErrHeightExists)
}

func TestLevelDBInsertIntoGapMergesOnCorrectNeighbor(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	gen := headertest.New()
	headers := gen.NextMany(12)

	_, err := s.Append(ctx, headers[:10]...)
	require.NoError(t, err)
	_, err = s.AppendUnchecked(ctx, headers[11])
	require.NoError(t, err)

	ranges, err := s.GetStoredHeaderRanges(ctx)
	require.NoError(t, err)
	require.Len(t, ranges.Ranges(), 2)

	_, err = s.Insert(ctx, []header.ExtendedHeader{headers[10]}, true)
	require.NoError(t, err)

	ranges, err = s.GetStoredHeaderRanges(ctx)
	require.NoError(t, err)
	require.Len(t, ranges.Ranges(), 1)
	assert.Equal(t, uint64(1), ranges.Ranges()[0].Start)
	assert.Equal(t, uint64(12), ranges.Ranges()[0].End)
}

func TestLevelDBInsertIntoGapRejectsForkedNeighbor(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	gen := headertest.New()
	headers := gen.NextMany(12)

	_, err := s.Append(ctx, headers[:10]...)
	require.NoError(t, err)
	_, err = s.AppendUnchecked(ctx, headers[11])
	require.NoError(t, err)

	forked := headertest.New()
	forkedHeaders := forked.NextMany(11)

	_, err = s.Insert(ctx, []header.ExtendedHeader{forkedHeaders[10]}, true)
	assert.ErrorIs(t, err, store.ErrHeaderChecks)

	ranges, err := s.GetStoredHeaderRanges(ctx)
	require.NoError(t, err)
	require.Len(t, ranges.Ranges(), 2)
}

func TestLevelDBUpdateSamplingMetadataMergesCIDs(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	gen := headertest.New()
	headers := gen.NextMany(1)
	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	c1 := mustCid(t, "a")
	c2 := mustCid(t, "b")

	require.NoError(t, s.UpdateSamplingMetadata(ctx, 1, store.SamplingMetadata{Accepted: true, CIDsSampled: []cid.Cid{c1}}))
	require.NoError(t, s.UpdateSamplingMetadata(ctx, 1, store.SamplingMetadata{Accepted: true, CIDsSampled: []cid.Cid{c1, c2}}))

	meta, err := s.GetSamplingMetadata(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []cid.Cid{c1, c2}, meta.CIDsSampled)
}

func mustCid(t *testing.T, seed string) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte(seed), multihash.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV1(cid.Raw, mh)
}

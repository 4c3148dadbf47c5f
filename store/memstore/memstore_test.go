package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/header/headertest"
	"github.com/tos-network/dasnode/store"
	"github.com/tos-network/dasnode/store/memstore"
)

func TestAppendAndGet(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(5)

	n, err := s.Append(ctx, headers...)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	head, err := s.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), head.Height())

	got, err := s.GetByHeight(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, headers[2].Hash(), got.Hash())

	byHash, err := s.GetByHash(ctx, headers[0].Hash())
	require.NoError(t, err)
	assert.Equal(t, headers[0].Height(), byHash.Height())
}

func TestAppendRejectsGap(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(3)

	gapped := []header.ExtendedHeader{headers[0], headers[2]}
	_, err := s.Insert(ctx, gapped, true)
	assert.ErrorIs(t, err, store.ErrInsertRangeWithGap)
}

func TestAppendRejectsNonAdjacentVerification(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(2)

	forked := headertest.New()
	forkedHeaders := forked.NextMany(3)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	_, err = s.Insert(ctx, []header.ExtendedHeader{forkedHeaders[2]}, true)
	assert.ErrorIs(t, err, store.ErrHeaderChecks)
}

func TestInsertIntoGapMergesOnCorrectNeighbor(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
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

func TestInsertIntoGapRejectsForkedNeighbor(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
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
	assert.Equal(t, uint64(1), ranges.Ranges()[0].Start)
	assert.Equal(t, uint64(10), ranges.Ranges()[0].End)
	assert.Equal(t, uint64(12), ranges.Ranges()[1].Start)
	assert.Equal(t, uint64(12), ranges.Ranges()[1].End)
}

func TestDuplicateHeightRejected(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(2)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	_, err = s.AppendUnchecked(ctx, headers[1])
	assert.ErrorIs(t, err, store.ErrHeightExists)
}

func TestWaitHeightUnblocksOnInsert(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(3)

	done := make(chan header.ExtendedHeader, 1)
	go func() {
		eh, err := s.WaitHeight(ctx, 3)
		if err == nil {
			done <- eh
		}
	}()

	time.Sleep(10 * time.Millisecond)
	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	select {
	case eh := <-done:
		assert.Equal(t, uint64(3), eh.Height())
	case <-ctx.Done():
		t.Fatal("WaitHeight did not unblock in time")
	}
}

func TestWaitHeightRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := memstore.New()
	_, err := s.WaitHeight(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSamplingMetadataAndNextUnsampled(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(3)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	next, err := s.NextUnsampledHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	require.NoError(t, s.UpdateSamplingMetadata(ctx, 1, store.SamplingMetadata{Accepted: true}))

	next, err = s.NextUnsampledHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next)

	meta, err := s.GetSamplingMetadata(ctx, 1)
	require.NoError(t, err)
	assert.True(t, meta.Accepted)
}

func TestNextUnsampledHeightSkipsOverGap(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(9)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	for _, h := range []uint64{1, 2, 3, 4, 5, 6, 8} {
		require.NoError(t, s.UpdateSamplingMetadata(ctx, h, store.SamplingMetadata{Accepted: true}))
	}

	next, err := s.NextUnsampledHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), next)

	require.NoError(t, s.UpdateSamplingMetadata(ctx, 7, store.SamplingMetadata{Accepted: true}))
	next, err = s.NextUnsampledHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), next)

	require.NoError(t, s.UpdateSamplingMetadata(ctx, 9, store.SamplingMetadata{Accepted: true}))
	next, err = s.NextUnsampledHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), next)
}

func TestUpdateSamplingMetadataMergesCIDs(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
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
	assert.True(t, meta.Accepted)
	assert.ElementsMatch(t, []cid.Cid{c1, c2}, meta.CIDsSampled)
}

func mustCid(t *testing.T, seed string) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte(seed), multihash.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV1(cid.Raw, mh)
}

func TestGetRangeByHeight(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(10)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	got, err := s.GetRangeByHeight(ctx, 3, 6)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, uint64(3), got[0].Height())
	assert.Equal(t, uint64(6), got[3].Height())
}

func TestGetStoredHeaderRanges(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	gen := headertest.New()
	headers := gen.NextMany(5)

	_, err := s.Append(ctx, headers...)
	require.NoError(t, err)

	ranges, err := s.GetStoredHeaderRanges(ctx)
	require.NoError(t, err)
	require.Len(t, ranges.Ranges(), 1)
	assert.Equal(t, uint64(1), ranges.Ranges()[0].Start)
	assert.Equal(t, uint64(5), ranges.Ranges()[0].End)
}

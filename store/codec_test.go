package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/dasnode/header/headertest"
	"github.com/tos-network/dasnode/store"
)

func TestHeaderCodecRoundTrip(t *testing.T) {
	gen := headertest.New()
	eh := gen.Next()

	buf := store.EncodeHeader(eh)
	got, err := store.DecodeHeader(buf)
	require.NoError(t, err)

	assert.Equal(t, eh.Hash(), got.Hash())
	assert.Equal(t, eh.Height(), got.Height())
	assert.Equal(t, eh.ChainID(), got.ChainID())
	assert.Equal(t, eh.Commit.Signatures, got.Commit.Signatures)
	assert.Equal(t, eh.ValidatorSet.Validators, got.ValidatorSet.Validators)
	assert.Equal(t, eh.Dah.RowRoots, got.Dah.RowRoots)
}

func TestDecodeHeaderRejectsBadPrefix(t *testing.T) {
	_, err := store.DecodeHeader([]byte("not a record"))
	assert.ErrorIs(t, err, store.ErrStoredData)
}

func TestSamplingMetadataCodecRoundTrip(t *testing.T) {
	meta := store.SamplingMetadata{Accepted: true}
	buf := store.EncodeSamplingMetadata(meta)
	got, err := store.DecodeSamplingMetadata(buf)
	require.NoError(t, err)
	assert.Equal(t, meta.Accepted, got.Accepted)
	assert.Empty(t, got.CIDsSampled)
}

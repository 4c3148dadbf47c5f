package shwap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/dasnode/shwap"
)

func root(b byte) [shwap.RootHashSize]byte {
	var r [shwap.RootHashSize]byte
	for i := range r {
		r[i] = b
	}
	return r
}

func TestRowIDRoundTrip(t *testing.T) {
	id, err := shwap.NewRowID(3, root(0xaa), 100)
	require.NoError(t, err)

	c, err := id.Cid()
	require.NoError(t, err)

	got, err := shwap.RowIDFromCid(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRowIDRejectsZeroHeight(t *testing.T) {
	_, err := shwap.NewRowID(0, root(0x01), 0)
	assert.ErrorIs(t, err, shwap.ErrZeroHeight)
}

func TestSampleIDRoundTrip(t *testing.T) {
	id, err := shwap.NewSampleID(1, 2, root(0xbb), 55)
	require.NoError(t, err)

	c, err := id.Cid()
	require.NoError(t, err)

	got, err := shwap.SampleIDFromCid(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestNamespacedRowIDRoundTrip(t *testing.T) {
	var ns shwap.Namespace
	copy(ns[:], []byte("a-test-namespace"))

	id, err := shwap.NewNamespacedRowID(7, root(0xcc), 9001, ns)
	require.NoError(t, err)

	c, err := id.Cid()
	require.NoError(t, err)

	got, err := shwap.NamespacedRowIDFromCid(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDistinctTuplesProduceDistinctCids(t *testing.T) {
	a, err := shwap.NewSampleID(1, 2, root(0x01), 10)
	require.NoError(t, err)
	b, err := shwap.NewSampleID(1, 3, root(0x01), 10)
	require.NoError(t, err)

	ca, err := a.Cid()
	require.NoError(t, err)
	cb, err := b.Cid()
	require.NoError(t, err)

	assert.False(t, ca.Equals(cb))
}

func TestRowIDFromCidRejectsWrongCodec(t *testing.T) {
	sample, err := shwap.NewSampleID(1, 2, root(0x01), 10)
	require.NoError(t, err)
	c, err := sample.Cid()
	require.NoError(t, err)

	_, err = shwap.RowIDFromCid(c)
	assert.ErrorIs(t, err, shwap.ErrInvalidCodec)
}

func TestDecodeRowIDRejectsWrongLength(t *testing.T) {
	_, err := shwap.DecodeRowID([]byte{1, 2, 3})
	assert.ErrorIs(t, err, shwap.ErrInvalidLength)
}

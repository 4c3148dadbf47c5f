package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/header/headertest"
)

func TestValidateCorrect(t *testing.T) {
	gen := headertest.New()
	for i := 0; i < 5; i++ {
		h := gen.Next()
		require.NoError(t, h.Validate())
	}
}

func TestValidateValidatorHashMismatch(t *testing.T) {
	gen := headertest.New()
	h := gen.Next()
	h.Header.ValidatorsHash = header.Hash{}
	assert.ErrorIs(t, h.Validate(), header.ErrInconsistent)
}

func TestValidateDahHashMismatch(t *testing.T) {
	gen := headertest.New()
	h := gen.Next()
	h.Dah.RowRoots[0] = []byte("tampered")
	assert.ErrorIs(t, h.Validate(), header.ErrInconsistent)
}

func TestValidateCommitHeightMismatch(t *testing.T) {
	gen := headertest.New()
	h := gen.Next()
	h.Commit.Height = 0xdeadbeef
	assert.ErrorIs(t, h.Validate(), header.ErrInconsistent)
}

func TestValidateCommitBlockHashMismatch(t *testing.T) {
	gen := headertest.New()
	h := gen.Next()
	h.Commit.BlockID.Hash = header.Hash{0xff}
	assert.ErrorIs(t, h.Validate(), header.ErrInconsistent)
}

func TestVerifyAdjacent(t *testing.T) {
	gen := headertest.New()
	h1 := gen.Next()
	h2 := gen.Next()
	require.NoError(t, h1.Verify(h2))
}

func TestVerifyInvalidHeight(t *testing.T) {
	gen := headertest.New()
	h := gen.Next()
	assert.ErrorIs(t, h.Verify(h), header.ErrHeightMonotonicity)
}

func TestVerifyInvalidChainID(t *testing.T) {
	gen := headertest.New()
	h1 := gen.Next()
	h2 := gen.Next()
	h2.Header.ChainID = "other"
	assert.ErrorIs(t, h1.Verify(h2), header.ErrChainMismatch)
}

func TestVerifySkipping(t *testing.T) {
	gen := headertest.New()
	h1 := gen.Next()
	headers := gen.NextMany(26)
	last := headers[len(headers)-1]
	require.NoError(t, h1.Verify(last))
}

func TestVerifyAdjacentRange(t *testing.T) {
	gen := headertest.New()
	h1 := gen.Next()
	tail := gen.NextMany(10)
	require.NoError(t, h1.VerifyAdjacentRange(tail))
}

func TestVerifyAdjacentRangeRejectsGap(t *testing.T) {
	gen := headertest.New()
	h1 := gen.Next()
	tail := gen.NextMany(5)
	// remove the middle header to introduce a gap
	gapped := append(append([]header.ExtendedHeader{}, tail[:2]...), tail[3:]...)
	assert.ErrorIs(t, h1.VerifyAdjacentRange(gapped), header.ErrNonContiguousTail)
}

func TestVerifyRejectsHeaderFromDifferentChain(t *testing.T) {
	gen := headertest.New()
	h1 := gen.Next()

	other := headertest.New()
	otherH1 := other.Next()
	otherH2 := other.Next()

	assert.Error(t, h1.Verify(otherH2))
	assert.NoError(t, otherH1.Verify(otherH2))
}

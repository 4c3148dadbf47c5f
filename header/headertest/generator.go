// Package headertest generates chains of signed ExtendedHeaders for use in
// tests across the module. All methods panic on internal inconsistency; this
// package must never be imported outside of tests.
package headertest

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"time"

	"github.com/tos-network/dasnode/header"
)

// Generator produces a chain of valid, linked ExtendedHeaders signed by a
// single validator with 100% of the voting power, which is sufficient to
// satisfy both the 2/3 self-quorum invariant and 1/3 skip-trust checks.
type Generator struct {
	chainID string
	pub     ed25519.PublicKey
	priv    ed25519.PrivateKey
	current *header.ExtendedHeader
	clock   time.Time
}

// New returns a Generator for a fresh chain, not yet holding any header.
func New() *Generator {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return &Generator{
		chainID: "private",
		pub:     pub,
		priv:    priv,
		clock:   time.Now().UTC().Add(-24 * time.Hour),
	}
}

// NewSkipped returns a Generator that has already generated and discarded
// amount headers, equivalent to calling New then NextMany(amount).
func NewSkipped(amount uint64) *Generator {
	g := New()
	g.NextMany(amount)
	return g
}

// CurrentHeader returns the most recently generated header. Panics if Next
// has not been called yet.
func (g *Generator) CurrentHeader() header.ExtendedHeader {
	if g.current == nil {
		panic("headertest: no header generated yet")
	}
	return *g.current
}

// CurrentHeight returns the height of CurrentHeader.
func (g *Generator) CurrentHeight() uint64 {
	return g.CurrentHeader().Height()
}

func (g *Generator) validatorSet() header.ValidatorSet {
	return header.ValidatorSet{Validators: []header.Validator{{
		Address:     addressFromPubKey(g.pub),
		PubKey:      g.pub,
		VotingPower: 1,
	}}}
}

func addressFromPubKey(pub ed25519.PublicKey) header.Address {
	sum := sha256.Sum256(pub)
	var addr header.Address
	copy(addr[:], sum[:len(addr)])
	return addr
}

func dahFor(height uint64) header.DataAvailabilityHeader {
	width := 4
	roots := make([][]byte, width)
	for i := range roots {
		sum := sha256.Sum256([]byte{byte(height), byte(height >> 8), byte(i), 0})
		roots[i] = sum[:]
	}
	return header.DataAvailabilityHeader{RowRoots: roots, ColumnRoots: roots}
}

// Next generates and returns the next header in the chain.
func (g *Generator) Next() header.ExtendedHeader {
	if g.current == nil {
		eh := g.genesis()
		g.current = &eh
		return eh
	}
	next := g.nextOf(*g.current)
	g.current = &next
	return next
}

// NextMany generates and returns the next amount headers in the chain.
func (g *Generator) NextMany(amount uint64) []header.ExtendedHeader {
	out := make([]header.ExtendedHeader, 0, amount)
	for i := uint64(0); i < amount; i++ {
		out = append(out, g.Next())
	}
	return out
}

// NextOf generates the header that would follow from, without mutating the
// generator's own chain position. Useful for building forks.
func (g *Generator) NextOf(from header.ExtendedHeader) header.ExtendedHeader {
	return g.nextOf(from)
}

// NextManyOf generates amount headers that would follow from, without
// mutating the generator's own chain position.
func (g *Generator) NextManyOf(from header.ExtendedHeader, amount uint64) []header.ExtendedHeader {
	out := make([]header.ExtendedHeader, 0, amount)
	cur := from
	for i := uint64(0); i < amount; i++ {
		cur = g.nextOf(cur)
		out = append(out, cur)
	}
	return out
}

func (g *Generator) genesis() header.ExtendedHeader {
	g.clock = g.clock.Add(time.Second)
	vs := g.validatorSet()
	dah := dahFor(1)

	h := header.Header{
		ChainID:            g.chainID,
		Height:             1,
		Time:               g.clock,
		ValidatorsHash:     vs.Hash(),
		NextValidatorsHash: vs.Hash(),
		DataHash:           dah.Hash(),
	}
	return g.sign(h, vs, dah)
}

func (g *Generator) nextOf(from header.ExtendedHeader) header.ExtendedHeader {
	g.clock = g.clock.Add(time.Second)
	if from.Time().After(g.clock) {
		g.clock = from.Time().Add(time.Second)
	}

	vs := g.validatorSet()
	dah := dahFor(from.Height() + 1)

	h := header.Header{
		ChainID:            g.chainID,
		Height:             from.Height() + 1,
		Time:               g.clock,
		LastBlockID:        header.BlockID{Hash: from.Hash()},
		ValidatorsHash:     vs.Hash(),
		NextValidatorsHash: vs.Hash(),
		DataHash:           dah.Hash(),
	}
	return g.sign(h, vs, dah)
}

func (g *Generator) sign(h header.Header, vs header.ValidatorSet, dah header.DataAvailabilityHeader) header.ExtendedHeader {
	commit := header.Commit{Height: h.Height, BlockID: header.BlockID{Hash: h.Hash()}}
	sig := ed25519.Sign(g.priv, commit.SignBytes(h.ChainID))
	commit.Signatures = []header.CommitSig{{
		ValidatorAddress: addressFromPubKey(g.pub),
		Signature:        sig,
	}}

	eh := header.ExtendedHeader{
		Header:       h,
		Commit:       commit,
		ValidatorSet: vs,
		Dah:          dah,
	}
	if err := eh.Validate(); err != nil {
		panic(err)
	}
	return eh
}

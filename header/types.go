// Package header implements the extended header record described in the
// data-availability chain's light-client protocol: a tendermint-style signed
// header plus a Data Availability Header (DAH), together with the pure,
// local validation and trust-chain verification algorithms that feed the
// header store.
package header

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// HashSize is the width of every hash used by this package.
const HashSize = 32

// Hash is a sha256 digest.
type Hash [HashSize]byte

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) String() string {
	const hextable = "0123456789abcdef"
	buf := make([]byte, HashSize*2)
	for i, b := range h {
		buf[i*2] = hextable[b>>4]
		buf[i*2+1] = hextable[b&0x0f]
	}
	return string(buf)
}

// Address identifies a validator, independent of its public key encoding.
type Address [20]byte

func (a Address) String() string { return Hash(sha256.Sum256(a[:])).String()[:40] }

// BlockID identifies a signed block by the hash of its header.
type BlockID struct {
	Hash Hash
}

// Header is the tendermint-style signed block header. Fields beyond those
// needed for light-client verification (app hash, proposer, etc.) are out of
// scope: state-machine execution is a Non-goal.
type Header struct {
	ChainID            string
	Height             uint64
	Time               time.Time
	LastBlockID        BlockID
	ValidatorsHash     Hash
	NextValidatorsHash Hash
	DataHash           Hash
}

// Hash returns the digest of the header's own fields. Validate requires the
// commit's block id hash (ExtendedHeader.Hash, the canonical block identity)
// to equal it.
func (h Header) Hash() Hash {
	buf := make([]byte, 0, 128+len(h.ChainID))
	buf = append(buf, h.ChainID...)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], h.Height)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], uint64(h.Time.UnixNano()))
	buf = append(buf, tmp[:]...)
	buf = append(buf, h.LastBlockID.Hash[:]...)
	buf = append(buf, h.ValidatorsHash[:]...)
	buf = append(buf, h.NextValidatorsHash[:]...)
	buf = append(buf, h.DataHash[:]...)
	return sha256.Sum256(buf)
}

// CommitSig is one validator's vote included in a Commit. A nil Signature
// means the validator did not vote (absent, not equivocating).
type CommitSig struct {
	ValidatorAddress Address
	Signature        []byte
}

// Commit is the set of signatures over a single block id at a given height.
type Commit struct {
	Height     uint64
	BlockID    BlockID
	Signatures []CommitSig
}

// SignBytes returns the canonical bytes a validator signs over for this
// commit, independent of which validator is signing.
func (c Commit) SignBytes(chainID string) []byte {
	buf := make([]byte, 0, len(chainID)+40)
	buf = append(buf, chainID...)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], c.Height)
	buf = append(buf, tmp[:]...)
	buf = append(buf, c.BlockID.Hash[:]...)
	return buf
}

// Validator is one member of a ValidatorSet.
type Validator struct {
	Address     Address
	PubKey      ed25519.PublicKey
	VotingPower uint64
}

// ValidatorSet is the full set of validators securing a height, along with
// their voting power.
type ValidatorSet struct {
	Validators []Validator
}

// TotalVotingPower sums the voting power of every validator in the set.
func (vs ValidatorSet) TotalVotingPower() uint64 {
	var total uint64
	for _, v := range vs.Validators {
		total += v.VotingPower
	}
	return total
}

// Hash returns a deterministic digest of the validator set's composition,
// used to cross-check Header.ValidatorsHash / NextValidatorsHash.
func (vs ValidatorSet) Hash() Hash {
	h := sha256.New()
	for _, v := range vs.Validators {
		h.Write(v.Address[:])
		h.Write(v.PubKey)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], v.VotingPower)
		h.Write(tmp[:])
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func (vs ValidatorSet) byAddress(addr Address) (Validator, bool) {
	for _, v := range vs.Validators {
		if v.Address == addr {
			return v, true
		}
	}
	return Validator{}, false
}

// DataAvailabilityHeader carries the row and column namespaced Merkle roots
// over a block's erasure-coded data square.
type DataAvailabilityHeader struct {
	RowRoots    [][]byte
	ColumnRoots [][]byte
}

// SquareWidth returns the width (in shares) of one axis of the data square.
func (dah DataAvailabilityHeader) SquareWidth() int {
	return len(dah.RowRoots)
}

// Hash returns the sha256 digest of the DAH, which must equal the parent
// header's DataHash.
func (dah DataAvailabilityHeader) Hash() Hash {
	h := sha256.New()
	for _, r := range dah.RowRoots {
		h.Write(r)
	}
	for _, c := range dah.ColumnRoots {
		h.Write(c)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// RowRoot returns the row root at index, or nil if out of range.
func (dah DataAvailabilityHeader) RowRoot(index int) []byte {
	if index < 0 || index >= len(dah.RowRoots) {
		return nil
	}
	return dah.RowRoots[index]
}

// ExtendedHeader is one block: a signed header, its commit, the validator
// set that secured it, and its Data Availability Header.
type ExtendedHeader struct {
	Header       Header
	Commit       Commit
	ValidatorSet ValidatorSet
	Dah          DataAvailabilityHeader
}

// Height is a convenience accessor for Header.Height.
func (eh ExtendedHeader) Height() uint64 { return eh.Header.Height }

// Time is a convenience accessor for Header.Time.
func (eh ExtendedHeader) Time() time.Time { return eh.Header.Time }

// ChainID is a convenience accessor for Header.ChainID.
func (eh ExtendedHeader) ChainID() string { return eh.Header.ChainID }

// Hash returns the block's identity: the commit's block id hash.
func (eh ExtendedHeader) Hash() Hash { return eh.Commit.BlockID.Hash }

// LastHeaderHash returns the hash of the previous block, per the header's
// LastBlockID.
func (eh ExtendedHeader) LastHeaderHash() Hash { return eh.Header.LastBlockID.Hash }

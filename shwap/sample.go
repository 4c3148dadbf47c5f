package shwap

import (
	"encoding/binary"
	"fmt"

	"github.com/ipfs/go-cid"
)

// sampleIDLen is the encoded length of a SampleID tuple:
// row_index(2) + col_index(2) + root(32) + height(8).
const sampleIDLen = 2 + 2 + RootHashSize + 8

// SampleID identifies a single share within a row of the extended data
// square at a given height, addressed by the row's root hash.
type SampleID struct {
	RowIndex    uint16
	ColIndex    uint16
	RowRootHash [RootHashSize]byte
	Height      uint64
}

// NewSampleID builds a SampleID, rejecting height 0.
func NewSampleID(rowIndex, colIndex uint16, rowRoot [RootHashSize]byte, height uint64) (SampleID, error) {
	if err := checkHeight(height); err != nil {
		return SampleID{}, err
	}
	return SampleID{RowIndex: rowIndex, ColIndex: colIndex, RowRootHash: rowRoot, Height: height}, nil
}

// Encode serializes the identifier as
// row_index:u16 LE | col_index:u16 LE | root:32 | height:u64 LE.
func (id SampleID) Encode() []byte {
	buf := make([]byte, 0, sampleIDLen)
	buf = putUint16(buf, id.RowIndex)
	buf = putUint16(buf, id.ColIndex)
	buf = append(buf, id.RowRootHash[:]...)
	buf = putUint64(buf, id.Height)
	return buf
}

// DecodeSampleID parses the output of Encode.
func DecodeSampleID(buf []byte) (SampleID, error) {
	if len(buf) != sampleIDLen {
		return SampleID{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(buf), sampleIDLen)
	}
	var id SampleID
	id.RowIndex = binary.LittleEndian.Uint16(buf[0:2])
	id.ColIndex = binary.LittleEndian.Uint16(buf[2:4])
	copy(id.RowRootHash[:], buf[4:4+RootHashSize])
	id.Height = binary.LittleEndian.Uint64(buf[4+RootHashSize:])
	if err := checkHeight(id.Height); err != nil {
		return SampleID{}, err
	}
	return id, nil
}

// Cid returns the CID form of the identifier.
func (id SampleID) Cid() (cid.Cid, error) {
	return toCid(codecSmpl, mhCodeSmpl, id.Encode())
}

// SampleIDFromCid recovers a SampleID from a CID previously produced by Cid.
func SampleIDFromCid(c cid.Cid) (SampleID, error) {
	digest, err := fromCid(c, codecSmpl, mhCodeSmpl, sampleIDLen)
	if err != nil {
		return SampleID{}, err
	}
	return DecodeSampleID(digest)
}

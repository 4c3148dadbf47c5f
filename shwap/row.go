package shwap

import (
	"encoding/binary"
	"fmt"

	"github.com/ipfs/go-cid"
)

// rowIDLen is the encoded length of a RowID tuple: row_index(2) + root(32) + height(8).
const rowIDLen = 2 + RootHashSize + 8

// RowID identifies a single row of the extended data square at a given
// height, addressed by the row's own root hash.
type RowID struct {
	RowIndex    uint16
	RowRootHash [RootHashSize]byte
	Height      uint64
}

// NewRowID builds a RowID, rejecting height 0 uniformly per the module's
// zero-height policy.
func NewRowID(rowIndex uint16, rowRoot [RootHashSize]byte, height uint64) (RowID, error) {
	if err := checkHeight(height); err != nil {
		return RowID{}, err
	}
	return RowID{RowIndex: rowIndex, RowRootHash: rowRoot, Height: height}, nil
}

// Encode serializes the identifier as row_index:u16 LE | root:32 | height:u64 LE.
func (id RowID) Encode() []byte {
	buf := make([]byte, 0, rowIDLen)
	buf = putUint16(buf, id.RowIndex)
	buf = append(buf, id.RowRootHash[:]...)
	buf = putUint64(buf, id.Height)
	return buf
}

// DecodeRowID parses the output of Encode.
func DecodeRowID(buf []byte) (RowID, error) {
	if len(buf) != rowIDLen {
		return RowID{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(buf), rowIDLen)
	}
	var id RowID
	id.RowIndex = binary.LittleEndian.Uint16(buf[0:2])
	copy(id.RowRootHash[:], buf[2:2+RootHashSize])
	id.Height = binary.LittleEndian.Uint64(buf[2+RootHashSize:])
	if err := checkHeight(id.Height); err != nil {
		return RowID{}, err
	}
	return id, nil
}

// Cid returns the CID form of the identifier, used both as a wire request
// key and a local cache key.
func (id RowID) Cid() (cid.Cid, error) {
	return toCid(codecRow, mhCodeRow, id.Encode())
}

// RowIDFromCid recovers a RowID from a CID previously produced by Cid.
func RowIDFromCid(c cid.Cid) (RowID, error) {
	digest, err := fromCid(c, codecRow, mhCodeRow, rowIDLen)
	if err != nil {
		return RowID{}, err
	}
	return DecodeRowID(digest)
}

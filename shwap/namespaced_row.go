package shwap

import (
	"encoding/binary"
	"fmt"

	"github.com/ipfs/go-cid"
)

// namespacedRowIDLen is the encoded length of a NamespacedRowID tuple:
// row_index(2) + root(32) + height(8) + namespace(29).
const namespacedRowIDLen = 2 + RootHashSize + 8 + NamespaceSize

// NamespacedRowID identifies the shares of a single row that fall under a
// given namespace, at a given height.
type NamespacedRowID struct {
	RowIndex    uint16
	RowRootHash [RootHashSize]byte
	Height      uint64
	Namespace   Namespace
}

// NewNamespacedRowID builds a NamespacedRowID, rejecting height 0.
func NewNamespacedRowID(rowIndex uint16, rowRoot [RootHashSize]byte, height uint64, ns Namespace) (NamespacedRowID, error) {
	if err := checkHeight(height); err != nil {
		return NamespacedRowID{}, err
	}
	return NamespacedRowID{RowIndex: rowIndex, RowRootHash: rowRoot, Height: height, Namespace: ns}, nil
}

// Encode serializes the identifier as
// row_index:u16 LE | root:32 | height:u64 LE | namespace:29 bytes.
//
// The namespace trails the tuple rather than leading it, matching the wire
// layout this identifier family has always used.
func (id NamespacedRowID) Encode() []byte {
	buf := make([]byte, 0, namespacedRowIDLen)
	buf = putUint16(buf, id.RowIndex)
	buf = append(buf, id.RowRootHash[:]...)
	buf = putUint64(buf, id.Height)
	buf = append(buf, id.Namespace[:]...)
	return buf
}

// DecodeNamespacedRowID parses the output of Encode.
func DecodeNamespacedRowID(buf []byte) (NamespacedRowID, error) {
	if len(buf) != namespacedRowIDLen {
		return NamespacedRowID{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(buf), namespacedRowIDLen)
	}
	var id NamespacedRowID
	id.RowIndex = binary.LittleEndian.Uint16(buf[0:2])
	copy(id.RowRootHash[:], buf[2:2+RootHashSize])
	id.Height = binary.LittleEndian.Uint64(buf[2+RootHashSize : 2+RootHashSize+8])
	copy(id.Namespace[:], buf[2+RootHashSize+8:])
	if err := checkHeight(id.Height); err != nil {
		return NamespacedRowID{}, err
	}
	return id, nil
}

// Cid returns the CID form of the identifier.
func (id NamespacedRowID) Cid() (cid.Cid, error) {
	return toCid(codecNRow, mhCodeNRow, id.Encode())
}

// NamespacedRowIDFromCid recovers a NamespacedRowID from a CID previously
// produced by Cid.
func NamespacedRowIDFromCid(c cid.Cid) (NamespacedRowID, error) {
	digest, err := fromCid(c, codecNRow, mhCodeNRow, namespacedRowIDLen)
	if err != nil {
		return NamespacedRowID{}, err
	}
	return DecodeNamespacedRowID(digest)
}

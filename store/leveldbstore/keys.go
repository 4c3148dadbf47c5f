package leveldbstore

import (
	"encoding/binary"

	"github.com/tos-network/dasnode/header"
)

// Key layout. Heights are encoded big-endian so lexicographic key order
// matches numeric height order, letting range scans use the database's
// native iterator instead of loading everything into memory.
const (
	prefixHeaderByHeight   = 'h'
	prefixHeightByHash     = 'x'
	prefixSamplingByHeight = 's'
	rangesKey              = "r"
)

func heightKey(prefix byte, height uint64) []byte {
	buf := make([]byte, 1+8)
	buf[0] = prefix
	binary.BigEndian.PutUint64(buf[1:], height)
	return buf
}

func headerKey(height uint64) []byte   { return heightKey(prefixHeaderByHeight, height) }
func samplingKey(height uint64) []byte { return heightKey(prefixSamplingByHeight, height) }

func hashKey(hash header.Hash) []byte {
	buf := make([]byte, 1+len(hash))
	buf[0] = prefixHeightByHash
	copy(buf[1:], hash[:])
	return buf
}

func heightFromHeaderKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[1:])
}

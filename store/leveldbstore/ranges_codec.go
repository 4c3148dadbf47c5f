package leveldbstore

import (
	"encoding/binary"

	"github.com/tos-network/dasnode/blockrange"
)

// encodeRanges serializes a Set as a flat list of start/end uint64 pairs.
func encodeRanges(ranges []blockrange.Range) []byte {
	buf := make([]byte, 0, len(ranges)*16)
	for _, r := range ranges {
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], r.Start)
		buf = append(buf, tmp[:]...)
		binary.BigEndian.PutUint64(tmp[:], r.End)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// decodeRanges parses the output of encodeRanges.
func decodeRanges(buf []byte) ([]blockrange.Range, error) {
	if len(buf)%16 != 0 {
		return nil, ErrCorruptRanges
	}
	out := make([]blockrange.Range, 0, len(buf)/16)
	for i := 0; i < len(buf); i += 16 {
		out = append(out, blockrange.Range{
			Start: binary.BigEndian.Uint64(buf[i : i+8]),
			End:   binary.BigEndian.Uint64(buf[i+8 : i+16]),
		})
	}
	return out, nil
}

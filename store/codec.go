package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/tos-network/dasnode/header"
)

// recordPrefix and recordVersion tag every persisted record so a future
// on-disk format change can be detected instead of silently misparsed.
const (
	recordPrefix  = "DASN"
	recordVersion = uint8(1)
)

// encBuf is a small append-only cursor used by the Encode* functions below.
// It exists so the wire format stays a flat, hand-rolled binary layout
// instead of reaching for a generated codec.
type encBuf struct {
	buf []byte
}

func (e *encBuf) putUint8(v uint8)   { e.buf = append(e.buf, v) }
func (e *encBuf) putUint16(v uint16) { var t [2]byte; binary.LittleEndian.PutUint16(t[:], v); e.buf = append(e.buf, t[:]...) }
func (e *encBuf) putUint64(v uint64) { var t [8]byte; binary.LittleEndian.PutUint64(t[:], v); e.buf = append(e.buf, t[:]...) }
func (e *encBuf) putBytes(b []byte) {
	e.putUint64(uint64(len(b)))
	e.buf = append(e.buf, b...)
}
func (e *encBuf) putString(s string) { e.putBytes([]byte(s)) }

// decBuf is the matching read cursor.
type decBuf struct {
	buf []byte
	off int
}

func (d *decBuf) remaining() int { return len(d.buf) - d.off }

func (d *decBuf) getUint8() (uint8, error) {
	if d.remaining() < 1 {
		return 0, ErrStoredData
	}
	v := d.buf[d.off]
	d.off++
	return v, nil
}

func (d *decBuf) getUint16() (uint16, error) {
	if d.remaining() < 2 {
		return 0, ErrStoredData
	}
	v := binary.LittleEndian.Uint16(d.buf[d.off:])
	d.off += 2
	return v, nil
}

func (d *decBuf) getUint64() (uint64, error) {
	if d.remaining() < 8 {
		return 0, ErrStoredData
	}
	v := binary.LittleEndian.Uint64(d.buf[d.off:])
	d.off += 8
	return v, nil
}

func (d *decBuf) getBytes() ([]byte, error) {
	n, err := d.getUint64()
	if err != nil {
		return nil, err
	}
	if uint64(d.remaining()) < n {
		return nil, ErrStoredData
	}
	out := make([]byte, n)
	copy(out, d.buf[d.off:d.off+int(n)])
	d.off += int(n)
	return out, nil
}

func (d *decBuf) getString() (string, error) {
	b, err := d.getBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func putHash(e *encBuf, h header.Hash) { e.buf = append(e.buf, h[:]...) }

func getHash(d *decBuf) (header.Hash, error) {
	var h header.Hash
	if d.remaining() < len(h) {
		return h, ErrStoredData
	}
	copy(h[:], d.buf[d.off:d.off+len(h)])
	d.off += len(h)
	return h, nil
}

func putAddress(e *encBuf, a header.Address) { e.buf = append(e.buf, a[:]...) }

func getAddress(d *decBuf) (header.Address, error) {
	var a header.Address
	if d.remaining() < len(a) {
		return a, ErrStoredData
	}
	copy(a[:], d.buf[d.off:d.off+len(a)])
	d.off += len(a)
	return a, nil
}

// EncodeHeader serializes an ExtendedHeader for storage.
func EncodeHeader(eh header.ExtendedHeader) []byte {
	e := &encBuf{}
	e.buf = append(e.buf, []byte(recordPrefix)...)
	e.putUint8(recordVersion)

	e.putString(eh.Header.ChainID)
	e.putUint64(eh.Header.Height)
	e.putUint64(uint64(eh.Header.Time.UnixNano()))
	putHash(e, eh.Header.LastBlockID.Hash)
	putHash(e, eh.Header.ValidatorsHash)
	putHash(e, eh.Header.NextValidatorsHash)
	putHash(e, eh.Header.DataHash)

	e.putUint64(eh.Commit.Height)
	putHash(e, eh.Commit.BlockID.Hash)
	e.putUint64(uint64(len(eh.Commit.Signatures)))
	for _, sig := range eh.Commit.Signatures {
		putAddress(e, sig.ValidatorAddress)
		e.putBytes(sig.Signature)
	}

	e.putUint64(uint64(len(eh.ValidatorSet.Validators)))
	for _, v := range eh.ValidatorSet.Validators {
		putAddress(e, v.Address)
		e.putBytes(v.PubKey)
		e.putUint64(v.VotingPower)
	}

	e.putUint64(uint64(len(eh.Dah.RowRoots)))
	for _, r := range eh.Dah.RowRoots {
		e.putBytes(r)
	}
	e.putUint64(uint64(len(eh.Dah.ColumnRoots)))
	for _, r := range eh.Dah.ColumnRoots {
		e.putBytes(r)
	}

	return e.buf
}

// DecodeHeader parses the output of EncodeHeader.
func DecodeHeader(buf []byte) (header.ExtendedHeader, error) {
	if len(buf) < len(recordPrefix)+1 || string(buf[:len(recordPrefix)]) != recordPrefix {
		return header.ExtendedHeader{}, fmt.Errorf("%w: bad record prefix", ErrStoredData)
	}
	d := &decBuf{buf: buf, off: len(recordPrefix)}
	version, err := d.getUint8()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	if version != recordVersion {
		return header.ExtendedHeader{}, fmt.Errorf("%w: unsupported record version %d", ErrStoredData, version)
	}

	var eh header.ExtendedHeader

	eh.Header.ChainID, err = d.getString()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	eh.Header.Height, err = d.getUint64()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	unixNano, err := d.getUint64()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	eh.Header.Time = time.Unix(0, int64(unixNano)).UTC()
	if eh.Header.LastBlockID.Hash, err = getHash(d); err != nil {
		return header.ExtendedHeader{}, err
	}
	if eh.Header.ValidatorsHash, err = getHash(d); err != nil {
		return header.ExtendedHeader{}, err
	}
	if eh.Header.NextValidatorsHash, err = getHash(d); err != nil {
		return header.ExtendedHeader{}, err
	}
	if eh.Header.DataHash, err = getHash(d); err != nil {
		return header.ExtendedHeader{}, err
	}

	if eh.Commit.Height, err = d.getUint64(); err != nil {
		return header.ExtendedHeader{}, err
	}
	if eh.Commit.BlockID.Hash, err = getHash(d); err != nil {
		return header.ExtendedHeader{}, err
	}
	nsig, err := d.getUint64()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	eh.Commit.Signatures = make([]header.CommitSig, nsig)
	for i := range eh.Commit.Signatures {
		addr, err := getAddress(d)
		if err != nil {
			return header.ExtendedHeader{}, err
		}
		sig, err := d.getBytes()
		if err != nil {
			return header.ExtendedHeader{}, err
		}
		eh.Commit.Signatures[i] = header.CommitSig{ValidatorAddress: addr, Signature: sig}
	}

	nval, err := d.getUint64()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	eh.ValidatorSet.Validators = make([]header.Validator, nval)
	for i := range eh.ValidatorSet.Validators {
		addr, err := getAddress(d)
		if err != nil {
			return header.ExtendedHeader{}, err
		}
		pub, err := d.getBytes()
		if err != nil {
			return header.ExtendedHeader{}, err
		}
		power, err := d.getUint64()
		if err != nil {
			return header.ExtendedHeader{}, err
		}
		eh.ValidatorSet.Validators[i] = header.Validator{Address: addr, PubKey: pub, VotingPower: power}
	}

	nrow, err := d.getUint64()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	eh.Dah.RowRoots = make([][]byte, nrow)
	for i := range eh.Dah.RowRoots {
		if eh.Dah.RowRoots[i], err = d.getBytes(); err != nil {
			return header.ExtendedHeader{}, err
		}
	}
	ncol, err := d.getUint64()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	eh.Dah.ColumnRoots = make([][]byte, ncol)
	for i := range eh.Dah.ColumnRoots {
		if eh.Dah.ColumnRoots[i], err = d.getBytes(); err != nil {
			return header.ExtendedHeader{}, err
		}
	}

	return eh, nil
}

// EncodeSamplingMetadata serializes a SamplingMetadata for storage.
func EncodeSamplingMetadata(meta SamplingMetadata) []byte {
	e := &encBuf{}
	e.buf = append(e.buf, []byte(recordPrefix)...)
	e.putUint8(recordVersion)
	if meta.Accepted {
		e.putUint8(1)
	} else {
		e.putUint8(0)
	}
	e.putUint64(uint64(len(meta.CIDsSampled)))
	for _, c := range meta.CIDsSampled {
		e.putBytes(c.Bytes())
	}
	return e.buf
}

// DecodeSamplingMetadata parses the output of EncodeSamplingMetadata.
func DecodeSamplingMetadata(buf []byte) (SamplingMetadata, error) {
	if len(buf) < len(recordPrefix)+1 || string(buf[:len(recordPrefix)]) != recordPrefix {
		return SamplingMetadata{}, fmt.Errorf("%w: bad record prefix", ErrStoredData)
	}
	d := &decBuf{buf: buf, off: len(recordPrefix)}
	version, err := d.getUint8()
	if err != nil {
		return SamplingMetadata{}, err
	}
	if version != recordVersion {
		return SamplingMetadata{}, fmt.Errorf("%w: unsupported record version %d", ErrStoredData, version)
	}
	acceptedByte, err := d.getUint8()
	if err != nil {
		return SamplingMetadata{}, err
	}
	n, err := d.getUint64()
	if err != nil {
		return SamplingMetadata{}, err
	}
	meta := SamplingMetadata{Accepted: acceptedByte != 0, CIDsSampled: make([]cid.Cid, n)}
	for i := range meta.CIDsSampled {
		b, err := d.getBytes()
		if err != nil {
			return SamplingMetadata{}, err
		}
		c, err := cid.Cast(b)
		if err != nil {
			return SamplingMetadata{}, fmt.Errorf("%w: %v", ErrStoredData, err)
		}
		meta.CIDsSampled[i] = c
	}
	return meta, nil
}

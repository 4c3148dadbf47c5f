package shwap

import "errors"

var (
	// ErrZeroHeight is returned when constructing or decoding an identifier
	// with block height 0, forbidden.
	ErrZeroHeight = errors.New("shwap: block height must be >= 1")
	// ErrRowOutOfRange reports a row index beyond the DAH's square width.
	// The constructors and decoders in this package do not check indices
	// against a DAH and never return it.
	ErrRowOutOfRange = errors.New("shwap: row index out of range")
	// ErrSampleOutOfRange reports a sample index beyond the square width of
	// its row. The constructors and decoders in this package do not check
	// indices against a DAH and never return it.
	ErrSampleOutOfRange = errors.New("shwap: sample index out of range")
	// ErrInvalidLength is returned when a multihash digest does not match
	// the fixed width expected for its family.
	ErrInvalidLength = errors.New("shwap: invalid multihash digest length")
	// ErrInvalidCodec is returned when a CID's codec does not match the
	// family being decoded.
	ErrInvalidCodec = errors.New("shwap: invalid cid codec")
	// ErrInvalidMultihashCode is returned when a CID's multihash code does
	// not match the family being decoded.
	ErrInvalidMultihashCode = errors.New("shwap: invalid multihash code")
)

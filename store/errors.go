// Package store defines the header store contract shared by every backend
// (in-memory, on-disk, browser), plus the sentinel errors and sampling
// metadata types all backends return and persist identically.
package store

import "errors"

var (
	// ErrNotFound is returned when a requested header does not exist.
	ErrNotFound = errors.New("store: header not found")
	// ErrHashExists is returned by Insert when a header with the same hash
	// is already stored.
	ErrHashExists = errors.New("store: header hash already exists")
	// ErrHeightExists is returned by Insert when a header at the same
	// height is already stored.
	ErrHeightExists = errors.New("store: header height already exists")
	// ErrInsertRangeWithGap is returned when an insert's heights are not
	// contiguous.
	ErrInsertRangeWithGap = errors.New("store: header batch is not contiguous")
	// ErrInsertPlacementDisallowed is returned when an insert's range
	// overlaps an existing stored range without matching it exactly at the
	// overlap, and the store is unable to reconcile the two safely.
	ErrInsertPlacementDisallowed = errors.New("store: insert range placement disallowed")
	// ErrLostHeight is returned when a height known to be stored (by the
	// range index) cannot be loaded from the underlying header table,
	// indicating storage corruption.
	ErrLostHeight = errors.New("store: height present in range index but header missing")
	// ErrLostHash reports a hash known to be stored that cannot be resolved
	// to a height, indicating storage corruption. None of the backends in
	// this module returns it.
	ErrLostHash = errors.New("store: hash present in hash index but height missing")
	// ErrStoredData is returned when a stored record fails to decode.
	ErrStoredData = errors.New("store: stored data is corrupt")
	// ErrFatalDatabase is returned when the underlying database reports an
	// error the store cannot recover from.
	ErrFatalDatabase = errors.New("store: fatal database error")
	// ErrOpenFailed is returned when a backend fails to open or initialize.
	ErrOpenFailed = errors.New("store: failed to open store")
	// ErrInvalidHeadersRange is returned when an Insert call is given an
	// empty header slice, or one containing height 0.
	ErrInvalidHeadersRange = errors.New("store: invalid headers range")
	// ErrHeaderChecks is returned when a header fails structural or
	// neighbor verification during Insert.
	ErrHeaderChecks = errors.New("store: header failed checks")
)

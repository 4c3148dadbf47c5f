package header

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for header validation/verification failures. Use
// errors.Is to check for a specific kind; the wrapped message carries the
// offending field or height pair.
var (
	// ErrMissingField is returned when a required field is absent from a
	// header, commit, or validator set.
	ErrMissingField = errors.New("header: missing field")
	// ErrInconsistent is returned when two fields that must agree do not.
	ErrInconsistent = errors.New("header: inconsistent fields")
	// ErrCommitUnderpowered is returned when a commit's signing voting
	// power does not reach the required threshold.
	ErrCommitUnderpowered = errors.New("header: commit underpowered")

	// ErrHeightMonotonicity is returned by Verify when untrusted.Height is
	// not greater than trusted.Height.
	ErrHeightMonotonicity = errors.New("header: height is not monotonically increasing")
	// ErrChainMismatch is returned by Verify when chain ids differ.
	ErrChainMismatch = errors.New("header: chain id mismatch")
	// ErrTimeMonotonicity is returned by Verify when untrusted.Time is not
	// strictly after trusted.Time.
	ErrTimeMonotonicity = errors.New("header: time is not monotonically increasing")
	// ErrTimeFromFuture is returned by Verify when untrusted.Time exceeds
	// the allowed clock drift from now.
	ErrTimeFromFuture = errors.New("header: time is from the future")
)

func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...))
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}

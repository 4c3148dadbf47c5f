package header

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// MaxClockDrift bounds how far into the future an untrusted header's time
// may be, relative to the verifier's wall clock.
const MaxClockDrift = 10 * time.Second

// ValidationsPerYield is how many headers a batch validator processes
// before yielding to the scheduler.
const ValidationsPerYield = 4

// nowFn is overridable in tests that need deterministic "now".
var nowFn = time.Now

// Verify establishes that untrusted extends the chain trusted belongs to,
// checking chain id, height and time monotonicity, and clock drift; then, for
// an adjacent height, the validators-hash and previous-block-hash linkage,
// or, for a skipping step, commit voting power against trusted's validator
// set.
func (trusted ExtendedHeader) Verify(untrusted ExtendedHeader) error {
	if untrusted.Height() <= trusted.Height() {
		return fmt.Errorf("%w: untrusted height (%d) <= trusted height (%d)",
			ErrHeightMonotonicity, untrusted.Height(), trusted.Height())
	}

	if untrusted.ChainID() != trusted.ChainID() {
		return fmt.Errorf("%w: untrusted chain %q, trusted chain %q",
			ErrChainMismatch, untrusted.ChainID(), trusted.ChainID())
	}

	if !untrusted.Time().After(trusted.Time()) {
		return fmt.Errorf("%w: untrusted time (%s) must be after trusted time (%s)",
			ErrTimeMonotonicity, untrusted.Time(), trusted.Time())
	}

	validUntil := nowFn().Add(MaxClockDrift)
	if untrusted.Time().After(validUntil) {
		return fmt.Errorf("%w: untrusted time %s is after allowed %s",
			ErrTimeFromFuture, untrusted.Time(), validUntil)
	}

	if untrusted.Height() == trusted.Height()+1 {
		// Adjacent verification: linked via next_validators_hash and the
		// previous block's hash.
		if untrusted.Header.ValidatorsHash != trusted.Header.NextValidatorsHash {
			return inconsistent(
				"untrusted validators_hash (%s) != trusted next_validators_hash (%s)",
				untrusted.Header.ValidatorsHash, trusted.Header.NextValidatorsHash)
		}
		if untrusted.LastHeaderHash() != trusted.Hash() {
			return inconsistent(
				"untrusted last_header_hash (%s) != trusted hash (%s)",
				untrusted.LastHeaderHash(), trusted.Hash())
		}
		return nil
	}

	// Skipping verification: verify untrusted.Commit against trusted's
	// validator set at the configured trust level.
	return verifyCommitLight(trusted.ChainID(), trusted.ValidatorSet, untrusted.Commit, DefaultTrustLevel)
}

// ErrNonContiguousTail is returned by VerifyAdjacentRange when tail is not a
// contiguous run of heights starting at head.Height()+1.
var ErrNonContiguousTail = errors.New("header: tail is not a contiguous run of heights")

// VerifyAdjacentRange requires tail to be a contiguous run of heights
// head.Height()+1, head.Height()+2, ... with each header verified against
// the one before it.
func (head ExtendedHeader) VerifyAdjacentRange(tail []ExtendedHeader) error {
	prev := head
	for i, h := range tail {
		if h.Height() != prev.Height()+1 {
			return fmt.Errorf("%w: expected height %d, got %d", ErrNonContiguousTail, prev.Height()+1, h.Height())
		}
		if err := prev.Verify(h); err != nil {
			return fmt.Errorf("verifying header at height %d: %w", h.Height(), err)
		}
		prev = h

		if (i+1)%ValidationsPerYield == 0 {
			runtime.Gosched()
		}
	}
	return nil
}

// ValidateBatch runs Validate on every header, yielding cooperatively every
// ValidationsPerYield headers so other goroutines make progress during a
// CPU-heavy batch.
func ValidateBatch(headers []ExtendedHeader) error {
	for i, h := range headers {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("validating header at height %d: %w", h.Height(), err)
		}
		if (i+1)%ValidationsPerYield == 0 {
			runtime.Gosched()
		}
	}
	return nil
}

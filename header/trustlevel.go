package header

// Fraction is a simple numerator/denominator trust-level ratio, used when
// verifying a commit against a validator set we trust from a prior,
// possibly non-adjacent, height.
type Fraction struct {
	Numerator   uint64
	Denominator uint64
}

// DefaultTrustLevel is the trust level used for skipping verification:
// at least 1/3 of voting power must have signed.
var DefaultTrustLevel = Fraction{Numerator: 1, Denominator: 3}

// quorumTrustLevel is the power required for a header's own commit to be
// considered valid on its own terms: >= 2/3.
var quorumTrustLevel = Fraction{Numerator: 2, Denominator: 3}

// meets reports whether signed/total satisfies the fraction, using integer
// arithmetic: signed*denominator >= numerator*total.
func (f Fraction) meets(signed, total uint64) bool {
	if total == 0 {
		return false
	}
	return signed*f.Denominator >= f.Numerator*total
}

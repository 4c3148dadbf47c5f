package header

import "crypto/ed25519"

// Validate performs structural, local checks on an ExtendedHeader and
// enforces invariants (i)-(v). All checks are pure and
// independent of any other header.
func (eh ExtendedHeader) Validate() error {
	if eh.Header.ChainID == "" {
		return missingField("header.chain_id")
	}
	if eh.Header.Height == 0 {
		return missingField("header.height")
	}
	if len(eh.ValidatorSet.Validators) == 0 {
		return missingField("validator_set.validators")
	}
	if len(eh.Commit.Signatures) == 0 {
		return missingField("commit.signatures")
	}

	// (i) validator_set.hash() == header.validators_hash
	if eh.ValidatorSet.Hash() != eh.Header.ValidatorsHash {
		return inconsistent("validator_set hash (%s) != header validators_hash (%s)",
			eh.ValidatorSet.Hash(), eh.Header.ValidatorsHash)
	}

	// (ii) sha256(dah) == header.data_hash
	if eh.Dah.Hash() != eh.Header.DataHash {
		return inconsistent("dah hash (%s) != header data_hash (%s)", eh.Dah.Hash(), eh.Header.DataHash)
	}

	// (iii) commit.height == header.height
	if eh.Commit.Height != eh.Header.Height {
		return inconsistent("commit height (%d) != header height (%d)", eh.Commit.Height, eh.Header.Height)
	}

	// (iv) commit.block_id.hash == header.hash()
	if eh.Commit.BlockID.Hash != eh.Header.Hash() {
		return inconsistent("commit block_id hash (%s) != header hash (%s)",
			eh.Commit.BlockID.Hash, eh.Header.Hash())
	}

	// (v) commit carries >= 2/3 voting power from validator_set.
	if err := verifyCommitLight(eh.Header.ChainID, eh.ValidatorSet, eh.Commit, quorumTrustLevel); err != nil {
		return err
	}

	if len(eh.Dah.RowRoots) == 0 || len(eh.Dah.RowRoots) != len(eh.Dah.ColumnRoots) {
		return inconsistent("dah must have equal, non-zero row and column root counts")
	}

	return nil
}

// verifyCommitLight checks that commit carries signatures from validators in
// vs totalling at least the given fraction of vs's total voting power, and
// that every present signature verifies against the signer's public key.
func verifyCommitLight(chainID string, vs ValidatorSet, commit Commit, trust Fraction) error {
	signBytes := commit.SignBytes(chainID)

	var signedPower uint64
	seen := make(map[Address]struct{}, len(commit.Signatures))
	for _, sig := range commit.Signatures {
		if sig.Signature == nil {
			continue
		}
		if _, dup := seen[sig.ValidatorAddress]; dup {
			continue
		}
		seen[sig.ValidatorAddress] = struct{}{}

		val, ok := vs.byAddress(sig.ValidatorAddress)
		if !ok {
			continue
		}
		if len(val.PubKey) != ed25519.PublicKeySize || !ed25519.Verify(val.PubKey, signBytes, sig.Signature) {
			continue
		}
		signedPower += val.VotingPower
	}

	if !trust.meets(signedPower, vs.TotalVotingPower()) {
		return ErrCommitUnderpowered
	}
	return nil
}

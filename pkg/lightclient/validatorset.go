// Package lightclient implements the on-chain verifier's algorithm:
// given a bundle of per-validator attestations over a burn, decide
// whether they constitute proof that the burn happened, and if so
// create the corresponding VerifiedBurn record exactly once.
package lightclient

// ValidatorSet is the active quorum: a version, a threshold count, and
// an ordered list of Ed25519 public keys. Rotation produces a new
// ValidatorSet out of band — this type has no mutation methods.
type ValidatorSet struct {
	Version    uint64
	Threshold  int
	Validators [][32]byte
}

// Contains reports whether pubkey belongs to this set.
func (v *ValidatorSet) Contains(pubkey [32]byte) bool {
	return v.IndexOf(pubkey) >= 0
}

// IndexOf returns pubkey's position in the set, or -1.
func (v *ValidatorSet) IndexOf(pubkey [32]byte) int {
	for i, validator := range v.Validators {
		if validator == pubkey {
			return i
		}
	}
	return -1
}

package lightclient

import "time"

// VerifiedBurn is the record the light client creates exactly once per
// (asset_id, burn_nonce, user) tuple, never mutated or deleted after
// creation.
type VerifiedBurn struct {
	AssetID    uint8
	BurnNonce  uint64
	User       [32]byte
	Amount     uint64
	SetVersion uint64
	VerifiedAt time.Time
}

// AttestationEntry is one member of a submitted bundle — the wire form
// of pkg/attestation.Attestation as the verifier consumes it.
type AttestationEntry struct {
	ValidatorPubKey [32]byte
	Signature       [64]byte
}

// Bundle is what a relay submits to submit_burn_attestation_v3: the
// parameters it claims to be proving, plus the attestations backing
// that claim.
type Bundle struct {
	AssetID      uint8
	SetVersion   uint64
	BurnNonce    uint64
	Amount       uint64
	User         [32]byte
	Attestations []AttestationEntry
}

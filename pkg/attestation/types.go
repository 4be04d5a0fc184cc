package attestation

import "time"

// Request is what a relay posts to /attest-burn-v3. Only BurnNonce is
// trusted to locate the record; every other field is checked against
// what the validator reads from the source chain itself, never taken
// on faith.
type Request struct {
	AssetID    uint8  `json:"asset_id"`
	BurnNonce  uint64 `json:"burn_nonce"`
	User       string `json:"user"`        // hex-encoded 32 bytes
	Amount     uint64 `json:"amount"`
	SetVersion uint64 `json:"set_version"`
}

// Attestation is one validator's signature over a burn's canonical
// message. Timestamp is carried for audit/observability only — it is
// never part of CanonicalMessage and plays no role in verification.
type Attestation struct {
	ValidatorPubKey string    `json:"validator_pubkey"` // hex-encoded 32 bytes
	AssetID         uint8     `json:"asset_id"`
	SetVersion      uint64    `json:"set_version"`
	BurnNonce       uint64    `json:"burn_nonce"`
	Amount          uint64    `json:"amount"`
	User            string    `json:"user"`
	Signature       string    `json:"signature"` // hex-encoded 64 bytes
	Timestamp       time.Time `json:"timestamp"`
}

// Package bridgeerr collects the sentinel errors surfaced by the bridge's
// validator, light-client, and mint-issuer components. Each error kind is
// distinct and is returned verbatim (wrapped with %w) so callers can match
// on it with errors.Is.
package bridgeerr

import "errors"

var (
	// Source-chain lookup (component B)
	ErrBurnNotFound = errors.New("burn record not found")
	ErrNotFinalized = errors.New("burn record not yet finalized")

	// Request agreement (component B)
	ErrUnknownAsset    = errors.New("unknown asset")
	ErrUserMismatch    = errors.New("user does not match burn record")
	ErrAmountMismatch  = errors.New("amount does not match burn record")
	ErrWrongSetVersion = errors.New("set version does not match active validator set")

	// Bundle and attestation verification (component C)
	ErrParameterMismatch         = errors.New("bundle parameters do not agree with request")
	ErrConstraintSeeds           = errors.New("address does not match derived PDA")
	ErrVersionMismatch           = errors.New("attestation set version does not match active set")
	ErrInsufficientAttestations  = errors.New("fewer attestations than the active threshold")
	ErrUnknownValidator          = errors.New("attestation public key is not in the active validator set")
	ErrDuplicateValidator        = errors.New("duplicate attestation from the same validator")
	ErrInvalidValidatorSignature = errors.New("attestation signature does not verify")

	// Replay / lifecycle (components C and D)
	ErrAlreadyVerified  = errors.New("burn already verified")
	ErrAlreadyProcessed = errors.New("burn already processed")

	// Asset binding (component D)
	ErrAssetNotMintable    = errors.New("asset is not mintable by this program")
	ErrAssetMismatch       = errors.New("verified burn asset does not match requested asset")
	ErrInvalidVerifiedBurn = errors.New("verified burn record does not agree with request")

	// Account shape (component D)
	ErrInvalidValidatorAccount     = errors.New("validator fee account does not match the active set order")
	ErrValidatorAccountNotWritable = errors.New("validator fee account is not writable")
	ErrOverflow                    = errors.New("arithmetic overflow computing fee total")
)

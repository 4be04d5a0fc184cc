package lightclient

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/x1proto/bridge-validator/pkg/bridge"
	"github.com/x1proto/bridge-validator/pkg/bridgeerr"
	"github.com/x1proto/bridge-validator/pkg/chainstate"
)

// verifiedBurnProgramID scopes the PDA derivation for VerifiedBurn
// accounts, mirroring the way a real on-chain program would use its own
// program id as the first seed component.
var verifiedBurnProgramID = []byte("x1bridge_lightclient_v3")

// Verifier implements submit_burn_attestation_v3 against a chainstate
// store that stands in for the destination chain's account database.
type Verifier struct {
	store       *chainstate.Store
	activeSet   *ValidatorSet
	paramAsset  func(uint8) (bridge.AssetConfig, error)
}

func NewVerifier(store *chainstate.Store, activeSet *ValidatorSet, assetLookup func(uint8) (bridge.AssetConfig, error)) *Verifier {
	return &Verifier{store: store, activeSet: activeSet, paramAsset: assetLookup}
}

// VerifiedBurnAddress derives the deterministic PDA a VerifiedBurn for
// (assetID, user, burnNonce) must live at: seeds
// ["verified_burn_v3", asset_id, user, burn_nonce].
func VerifiedBurnAddress(assetID uint8, user [32]byte, burnNonce uint64) [32]byte {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], burnNonce)
	return chainstate.Derive(verifiedBurnProgramID, []byte("verified_burn_v3"), []byte{assetID}, user[:], nonceBytes[:])
}

// SubmitBurnAttestation runs the ordered checks of the light client
// (steps 1-7 below) and, only if every one passes, atomically creates
// the VerifiedBurn record (step 8). Every failure aborts with no state change — this
// is a fail-fast pipeline, not an error-accumulating report, because a
// partially-verified burn must never exist. assetID and burnNonce are
// the instruction-level arguments a caller passes separately from the
// bundle; they must agree with the bundle's own claims before anything
// else is checked.
func (v *Verifier) SubmitBurnAttestation(assetID uint8, burnNonce uint64, claimedAddr [32]byte, bundle Bundle) (*VerifiedBurn, error) {
	// 1. Instruction/bundle agreement: the caller's own asset_id and
	// burn_nonce arguments must equal the bundle's claims. A relay
	// cannot submit attestations for one burn under another burn's
	// instruction arguments.
	if assetID != bundle.AssetID || burnNonce != bundle.BurnNonce {
		return nil, bridgeerr.ErrParameterMismatch
	}

	assetCfg, err := v.paramAsset(bundle.AssetID)
	if err != nil {
		return nil, err
	}
	_ = assetCfg

	// 2. Empty bundle: a bundle that carries no attestations at all is
	// rejected outright, before any address or version work.
	if len(bundle.Attestations) == 0 {
		return nil, bridgeerr.ErrInsufficientAttestations
	}

	// 3. PDA binding: the address the caller wants to create must be
	// the one this (asset, user, nonce) tuple derives to. This is what
	// makes "which account gets created" unforgeable.
	expectedAddr := VerifiedBurnAddress(bundle.AssetID, bundle.User, bundle.BurnNonce)
	if claimedAddr != expectedAddr {
		return nil, bridgeerr.ErrConstraintSeeds
	}

	// 4. Version check: the bundle must be attesting under the
	// currently active validator set, not a stale or future one.
	if bundle.SetVersion != v.activeSet.Version {
		return nil, bridgeerr.ErrVersionMismatch
	}

	// 5. Threshold check: fail fast before doing any signature
	// verification work if there's no way the bundle can satisfy it.
	if len(bundle.Attestations) < v.activeSet.Threshold {
		return nil, bridgeerr.ErrInsufficientAttestations
	}

	// 6. Canonical message reconstruction: every attestation in the
	// bundle must be a signature over this exact message.
	message := bridge.CanonicalMessage(bridge.Asset(bundle.AssetID), bundle.SetVersion, bundle.BurnNonce, bundle.Amount, bundle.User)

	// 7. Per-attestation verification: unknown validator, duplicate
	// validator, and invalid signature are each distinct, and checked
	// in an order that is itself order-independent across the input
	// slice (the duplicate check is keyed by pubkey, not position).
	seenPubkeys := make(map[[32]byte]bool, len(bundle.Attestations))
	validCount := 0
	for _, entry := range bundle.Attestations {
		if !v.activeSet.Contains(entry.ValidatorPubKey) {
			return nil, bridgeerr.ErrUnknownValidator
		}
		if seenPubkeys[entry.ValidatorPubKey] {
			return nil, bridgeerr.ErrDuplicateValidator
		}
		seenPubkeys[entry.ValidatorPubKey] = true

		if !bridge.Verify(entry.ValidatorPubKey[:], message, entry.Signature[:]) {
			return nil, bridgeerr.ErrInvalidValidatorSignature
		}
		validCount++
	}

	if validCount < v.activeSet.Threshold {
		return nil, bridgeerr.ErrInsufficientAttestations
	}

	// 8. Atomic VerifiedBurn creation: the account's existence at this
	// address is itself the record of "this burn was verified" — there
	// is nothing else to roll back if this step fails.
	record := &VerifiedBurn{
		AssetID:    bundle.AssetID,
		BurnNonce:  bundle.BurnNonce,
		User:       bundle.User,
		Amount:     bundle.Amount,
		SetVersion: bundle.SetVersion,
		VerifiedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode verified burn: %w", err)
	}

	if err := v.store.CreateOnce(expectedAddr[:], encoded); err != nil {
		if err == chainstate.ErrAlreadyExists {
			return nil, bridgeerr.ErrAlreadyVerified
		}
		return nil, err
	}

	return record, nil
}

// ActiveSet returns the validator set this verifier checks bundles
// against — the mint issuer consults it to validate the order and
// completeness of the fee accounts it's handed.
func (v *Verifier) ActiveSet() *ValidatorSet {
	return v.activeSet
}

// GetVerifiedBurn reads back a previously created VerifiedBurn, used by
// the mint issuer to check its agreement checks.
func (v *Verifier) GetVerifiedBurn(assetID uint8, user [32]byte, burnNonce uint64) (*VerifiedBurn, error) {
	addr := VerifiedBurnAddress(assetID, user, burnNonce)
	raw, err := v.store.Get(addr[:])
	if err != nil {
		if err == chainstate.ErrNotFound {
			return nil, bridgeerr.ErrInvalidVerifiedBurn
		}
		return nil, err
	}
	var record VerifiedBurn
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode verified burn: %w", err)
	}
	return &record, nil
}

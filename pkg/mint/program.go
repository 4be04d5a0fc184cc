// Package mint implements the per-asset mint issuer: one compile-time
// specialized program per asset, each bound to exactly one asset_id at
// construction, mirroring the teacher's per-chain factory functions
// (NewSolanaMainnetStrategy, NewSolanaDevnetStrategy) rather than a
// runtime asset switch inside a single generic program.
package mint

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/x1proto/bridge-validator/pkg/bridge"
	"github.com/x1proto/bridge-validator/pkg/bridgeerr"
	"github.com/x1proto/bridge-validator/pkg/chainstate"
	"github.com/x1proto/bridge-validator/pkg/lightclient"
)

var processedBurnProgramID = []byte("x1bridge_mint_v3")

// NativeCurrencyMint is the reserved ledger key for the destination
// chain's own native currency, as opposed to any bridged asset's
// DestinationMint. Validator fees are paid in this currency, never in
// the bridged token a mint call just credited to the user.
var NativeCurrencyMint = [32]byte{}

// ProcessedBurn is the record a mint program creates exactly once per
// (asset_id, burn_nonce, user) tuple after minting, the replay guard
// for mint_from_burn_v3.
type ProcessedBurn struct {
	AssetID     uint8
	BurnNonce   uint64
	User        [32]byte
	Amount      uint64
	ProcessedAt time.Time
}

// MintState is a program's deployment configuration.
type MintState struct {
	Authority         [32]byte
	DestinationMint   [32]byte
	FeePerValidator   uint64
	LightClientProgID []byte
	BoundAssetID      uint8
}

// NativeLedger is the minimal balance-mutation surface a destination
// chain's token program would provide; the mint issuer only needs to
// mint to the recipient and transfer flat per-validator fees.
type NativeLedger interface {
	Mint(mint [32]byte, to [32]byte, amount uint64) error
	Transfer(mint [32]byte, from, to [32]byte, amount uint64) error
}

// Program is the shared mint_from_burn_v3 implementation; construction
// binds it to exactly one asset.
type Program struct {
	state    MintState
	store    *chainstate.Store
	verifier *lightclient.Verifier
	ledger   NativeLedger
}

func newProgram(boundAssetID bridge.Asset, authority, destinationMint [32]byte, feePerValidator uint64, store *chainstate.Store, verifier *lightclient.Verifier, ledger NativeLedger) *Program {
	return &Program{
		state: MintState{
			Authority:         authority,
			DestinationMint:   destinationMint,
			FeePerValidator:   feePerValidator,
			LightClientProgID: []byte("x1bridge_lightclient_v3"),
			BoundAssetID:      uint8(boundAssetID),
		},
		store:    store,
		verifier: verifier,
		ledger:   ledger,
	}
}

// NewXencatMintProgram constructs the mint program bound to XENCAT.
func NewXencatMintProgram(authority, destinationMint [32]byte, feePerValidator uint64, store *chainstate.Store, verifier *lightclient.Verifier, ledger NativeLedger) *Program {
	return newProgram(bridge.AssetXencat, authority, destinationMint, feePerValidator, store, verifier, ledger)
}

// NewDgnMintProgram constructs the mint program bound to DGN.
func NewDgnMintProgram(authority, destinationMint [32]byte, feePerValidator uint64, store *chainstate.Store, verifier *lightclient.Verifier, ledger NativeLedger) *Program {
	return newProgram(bridge.AssetDGN, authority, destinationMint, feePerValidator, store, verifier, ledger)
}

// ProcessedBurnAddress derives the PDA seeds
// ["processed_burn_v3", asset_id, burn_nonce, user].
func ProcessedBurnAddress(assetID uint8, burnNonce uint64, user [32]byte) [32]byte {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], burnNonce)
	return chainstate.Derive(processedBurnProgramID, []byte("processed_burn_v3"), []byte{assetID}, nonceBytes[:], user[:])
}

// ValidatorFeeAccount is one entry in the ordered, writable list of
// validator fee accounts a mint_from_burn_v3 call must supply, one per
// member of the active validator set, in that set's order.
type ValidatorFeeAccount struct {
	Address  [32]byte
	Writable bool
}

// MintFromBurn implements the six-step algorithm: asset binding,
// verified-burn agreement, atomic ProcessedBurn creation, minting the
// exact attested amount, flat per-validator fee distribution with
// checked arithmetic, all inside one all-or-nothing call — if any step
// fails, nothing from this call is applied.
func (p *Program) MintFromBurn(assetID uint8, burnNonce uint64, user [32]byte, activeValidators []ValidatorFeeAccount) (*ProcessedBurn, error) {
	// 1. Asset binding: this program only ever mints the one asset it
	// was compiled/constructed for.
	if assetID != p.state.BoundAssetID {
		return nil, bridgeerr.ErrAssetNotMintable
	}

	// 2. Verified-burn agreement: the claimed burn must have already
	// cleared the light client, and for the same asset/user/nonce.
	verified, err := p.verifier.GetVerifiedBurn(assetID, user, burnNonce)
	if err != nil {
		return nil, err
	}
	if verified.AssetID != assetID {
		return nil, bridgeerr.ErrAssetMismatch
	}
	if verified.BurnNonce != burnNonce || verified.User != user {
		return nil, bridgeerr.ErrInvalidVerifiedBurn
	}

	// 3. Per-validator fee accounts must be supplied in the active
	// set's own order, one per validator, every one of them writable —
	// there is no separate pass to reorder or filter them later.
	activeSet := p.verifier.ActiveSet()
	if len(activeValidators) != len(activeSet.Validators) {
		return nil, bridgeerr.ErrInvalidValidatorAccount
	}
	for i, acct := range activeValidators {
		if acct.Address != activeSet.Validators[i] {
			return nil, bridgeerr.ErrInvalidValidatorAccount
		}
		if !acct.Writable {
			return nil, bridgeerr.ErrValidatorAccountNotWritable
		}
	}

	// 4. Checked-arithmetic fee total: fee_per_validator * |validators|,
	// rejecting the call outright on overflow rather than wrapping or
	// truncating.
	feeTotal, err := checkedMul(p.state.FeePerValidator, uint64(len(activeValidators)))
	if err != nil {
		return nil, err
	}

	// 5. Atomic ProcessedBurn creation — the sole replay guard for this
	// program, identical in spirit to the light client's VerifiedBurn
	// gate.
	addr := ProcessedBurnAddress(assetID, burnNonce, user)
	record := &ProcessedBurn{
		AssetID:     assetID,
		BurnNonce:   burnNonce,
		User:        user,
		Amount:      verified.Amount,
		ProcessedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode processed burn: %w", err)
	}
	if err := p.store.CreateOnce(addr[:], encoded); err != nil {
		if err == chainstate.ErrAlreadyExists {
			return nil, bridgeerr.ErrAlreadyProcessed
		}
		return nil, err
	}

	// 6. Mint exactly the attested amount, then distribute the flat fee
	// to each validator out of the user's native-currency balance, not
	// the bridged token just minted — the ProcessedBurn record above has
	// already committed, so a ledger failure here is a programming
	// invariant violation rather than a rollback path.
	if err := p.ledger.Mint(p.state.DestinationMint, user, verified.Amount); err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	for _, acct := range activeValidators {
		if feeTotal == 0 {
			break
		}
		if err := p.ledger.Transfer(NativeCurrencyMint, user, acct.Address, p.state.FeePerValidator); err != nil {
			return nil, fmt.Errorf("fee transfer: %w", err)
		}
	}

	return record, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	result := a * b
	if result/a != b {
		return 0, bridgeerr.ErrOverflow
	}
	return result, nil
}

package lightclient

import (
	"crypto/ed25519"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1proto/bridge-validator/pkg/bridge"
	"github.com/x1proto/bridge-validator/pkg/bridgeerr"
	"github.com/x1proto/bridge-validator/pkg/chainstate"
)

type testValidator struct {
	pub  [32]byte
	priv ed25519.PrivateKey
}

func makeValidators(t *testing.T, n int) []testValidator {
	t.Helper()
	vs := make([]testValidator, n)
	for i := 0; i < n; i++ {
		pub, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		var p [32]byte
		copy(p[:], pub)
		vs[i] = testValidator{pub: p, priv: priv}
	}
	return vs
}

func newVerifierForTest(t *testing.T, threshold int, validators []testValidator) (*Verifier, *ValidatorSet) {
	t.Helper()
	pubkeys := make([][32]byte, len(validators))
	for i, v := range validators {
		pubkeys[i] = v.pub
	}
	set := &ValidatorSet{Version: 1, Threshold: threshold, Validators: pubkeys}
	store := chainstate.NewStore(dbm.NewMemDB())
	reg := bridge.NewRegistry()
	verifier := NewVerifier(store, set, func(assetID uint8) (bridge.AssetConfig, error) {
		return reg.Lookup(bridge.Asset(assetID))
	})
	return verifier, set
}

func sign(t *testing.T, v testValidator, assetID uint8, setVersion, burnNonce, amount uint64, user [32]byte) AttestationEntry {
	t.Helper()
	msg := bridge.CanonicalMessage(bridge.Asset(assetID), setVersion, burnNonce, amount, user)
	sig := bridge.Sign(v.priv, msg)
	var entry AttestationEntry
	entry.ValidatorPubKey = v.pub
	copy(entry.Signature[:], sig)
	return entry
}

func TestSubmitBurnAttestationExactThreshold(t *testing.T) {
	validators := makeValidators(t, 3)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	for _, v := range validators {
		bundle.Attestations = append(bundle.Attestations, sign(t, v, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user))
	}

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	record, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	require.NoError(t, err)
	assert.Equal(t, bundle.Amount, record.Amount)
}

func TestSubmitBurnAttestationThresholdMinusOneFails(t *testing.T) {
	validators := makeValidators(t, 3)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	for _, v := range validators[:2] {
		bundle.Attestations = append(bundle.Attestations, sign(t, v, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user))
	}

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrInsufficientAttestations)
}

func TestSubmitBurnAttestationThresholdPlusOneBadSig(t *testing.T) {
	validators := makeValidators(t, 4)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	for _, v := range validators[:3] {
		bundle.Attestations = append(bundle.Attestations, sign(t, v, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user))
	}
	bad := sign(t, validators[3], bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user)
	bad.Signature[0] ^= 0xFF
	bundle.Attestations = append(bundle.Attestations, bad)

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrInvalidValidatorSignature)
}

func TestSubmitBurnAttestationDuplicatePubkeyRejectedRegardlessOfPosition(t *testing.T) {
	validators := makeValidators(t, 3)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	bundle.Attestations = append(bundle.Attestations,
		sign(t, validators[0], bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user),
		sign(t, validators[1], bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user),
		sign(t, validators[0], bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user), // duplicate, not adjacent
	)

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrDuplicateValidator)
}

func TestSubmitBurnAttestationUnknownValidatorRejected(t *testing.T) {
	validators := makeValidators(t, 3)
	outsider := makeValidators(t, 1)[0]
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	bundle.Attestations = append(bundle.Attestations,
		sign(t, validators[0], bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user),
		sign(t, validators[1], bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user),
		sign(t, outsider, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user),
	)

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrUnknownValidator)
}

func TestSubmitBurnAttestationDoubleSubmitIsIdempotentlyRejected(t *testing.T) {
	validators := makeValidators(t, 3)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	for _, v := range validators {
		bundle.Attestations = append(bundle.Attestations, sign(t, v, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user))
	}

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	require.NoError(t, err)

	_, err = verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrAlreadyVerified)
}

func TestSubmitBurnAttestationWrongPDARejected(t *testing.T) {
	validators := makeValidators(t, 3)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	for _, v := range validators {
		bundle.Attestations = append(bundle.Attestations, sign(t, v, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user))
	}

	wrongAddr := [32]byte{0xFF}
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, wrongAddr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrConstraintSeeds)
}

func TestSubmitBurnAttestationInstructionArgsMustMatchBundle(t *testing.T) {
	validators := makeValidators(t, 3)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version, BurnNonce: 1, Amount: 500, User: user}
	for _, v := range validators {
		bundle.Attestations = append(bundle.Attestations, sign(t, v, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user))
	}

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce+1, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrParameterMismatch)

	_, err = verifier.SubmitBurnAttestation(bundle.AssetID+1, bundle.BurnNonce, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrParameterMismatch)
}

func TestSubmitBurnAttestationWrongSetVersionRejected(t *testing.T) {
	validators := makeValidators(t, 3)
	verifier, set := newVerifierForTest(t, 3, validators)

	user := [32]byte{0x01}
	bundle := Bundle{AssetID: uint8(bridge.AssetXencat), SetVersion: set.Version + 1, BurnNonce: 1, Amount: 500, User: user}
	for _, v := range validators {
		bundle.Attestations = append(bundle.Attestations, sign(t, v, bundle.AssetID, bundle.SetVersion, bundle.BurnNonce, bundle.Amount, user))
	}

	addr := VerifiedBurnAddress(bundle.AssetID, user, bundle.BurnNonce)
	_, err := verifier.SubmitBurnAttestation(bundle.AssetID, bundle.BurnNonce, addr, bundle)
	assert.ErrorIs(t, err, bridgeerr.ErrVersionMismatch)
}

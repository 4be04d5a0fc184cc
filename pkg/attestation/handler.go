package attestation

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/x1proto/bridge-validator/pkg/bridge"
	"github.com/x1proto/bridge-validator/pkg/bridgeerr"
	"github.com/x1proto/bridge-validator/pkg/sourcechain"
)

// Handler is the single-validator attestation service: one process per
// validator, serving one HTTP endpoint, with no dependency on any
// peer. It never aggregates — aggregation and threshold checking are
// the light client's job (pkg/lightclient).
type Handler struct {
	registry    *bridge.Registry
	fetcher     sourcechain.Fetcher
	finality    sourcechain.FinalityChecker
	keys        *KeyManager
	validatorID string
	setVersion  func() uint64 // current active validator set version
	logger      *log.Logger
}

// Config bundles a Handler's collaborators, mirroring the teacher's
// Config/DefaultConfig pattern for attestation.Service.
type Config struct {
	Registry    *bridge.Registry
	Fetcher     sourcechain.Fetcher
	Finality    sourcechain.FinalityChecker
	Keys        *KeyManager
	ValidatorID string
	SetVersion  func() uint64
	Logger      *log.Logger
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[Attestation] ", log.LstdFlags)
	}
	return &Handler{
		registry:    cfg.Registry,
		fetcher:     cfg.Fetcher,
		finality:    cfg.Finality,
		keys:        cfg.Keys,
		validatorID: cfg.ValidatorID,
		setVersion:  cfg.SetVersion,
		logger:      logger,
	}
}

// AttestBurn implements the validator's attestation algorithm in the
// exact order its correctness depends on: fetch, finality-gate, derive
// the asset from on-chain truth, agree on user/amount, check the set
// version, then sign. Each failure returns a distinct, stable error so
// relays and tests can discriminate on it.
func (h *Handler) AttestBurn(ctx context.Context, req Request) (*Attestation, error) {
	record, err := h.fetcher.FetchBurnRecord(ctx, req.BurnNonce)
	if err != nil {
		return nil, err // propagates bridgeerr.ErrBurnNotFound verbatim
	}

	if !h.finality.IsFinal(record) {
		return nil, bridgeerr.ErrNotFinalized
	}

	assetCfg, err := h.registry.LookupBySourceMint(record.SourceMintID)
	if err != nil {
		return nil, err // bridgeerr.ErrUnknownAsset
	}
	if req.AssetID != 0 && Asset(req.AssetID) != assetCfg.Asset {
		// The caller guessed wrong; still fine — we derived the real
		// asset ourselves and will sign for that, not for their claim.
		h.logger.Printf("request asset_id %d does not match derived asset %s for burn_nonce %d",
			req.AssetID, assetCfg.Asset, req.BurnNonce)
	}

	var reqUser [32]byte
	if err := decodeFixed32(req.User, &reqUser); err != nil {
		return nil, fmt.Errorf("decode request user: %w", err)
	}
	if reqUser != record.User {
		return nil, bridgeerr.ErrUserMismatch
	}
	if req.Amount != record.Amount {
		return nil, bridgeerr.ErrAmountMismatch
	}

	activeVersion := h.setVersion()
	if req.SetVersion != activeVersion {
		return nil, bridgeerr.ErrWrongSetVersion
	}

	message := bridge.CanonicalMessage(assetCfg.Asset, activeVersion, record.BurnNonce, record.Amount, record.User)
	signature := bridge.Sign(h.keys.PrivateKey(), message)

	return &Attestation{
		ValidatorPubKey: h.keys.PublicKeyHex(),
		AssetID:         uint8(assetCfg.Asset),
		SetVersion:      activeVersion,
		BurnNonce:       record.BurnNonce,
		Amount:          record.Amount,
		User:            hex.EncodeToString(record.User[:]),
		Signature:       hex.EncodeToString(signature),
		Timestamp:       time.Now().UTC(),
	}, nil
}

// Asset is a local alias kept so this file doesn't need to import
// pkg/bridge twice under two names.
type Asset = bridge.Asset

func decodeFixed32(hexStr string, out *[32]byte) error {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return err
	}
	if len(raw) != 32 {
		return fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return nil
}

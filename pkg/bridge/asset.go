// Package bridge defines the canonical message format and asset registry
// shared by every validator, the light-client verifier, and the mint
// issuer programs. Nothing here is chain-specific; it is the wire
// contract the three components agree on independently.
package bridge

import "github.com/x1proto/bridge-validator/pkg/bridgeerr"

// Asset identifies one of the fixed set of bridgeable tokens. Adding a
// new asset means adding a new compile-time mint program (see
// pkg/mint), not a new branch in existing verification logic.
type Asset uint8

const (
	AssetXencat Asset = 1
	AssetDGN    Asset = 2
)

func (a Asset) String() string {
	switch a {
	case AssetXencat:
		return "XENCAT"
	case AssetDGN:
		return "DGN"
	default:
		return "UNKNOWN"
	}
}

func (a Asset) Valid() bool {
	switch a {
	case AssetXencat, AssetDGN:
		return true
	default:
		return false
	}
}

// AssetConfig binds an Asset to its source- and destination-chain
// identities. SourceMintID is the mint account the burn record must
// reference; DestinationMintID and MintProgramID identify the
// destination-chain token and the program authorized to mint it.
type AssetConfig struct {
	Asset             Asset
	SourceMintID      [32]byte
	DestinationMintID [32]byte
	MintProgramID     [32]byte
}

// Registry is the immutable, compile-time asset table. Both the
// validator attestation service and the light-client verifier consult
// it to derive the asset from on-chain facts — it is never taken from
// untrusted request input.
type Registry struct {
	byAsset map[Asset]AssetConfig
}

// NewRegistry builds a Registry from the fixed asset list below.
func NewRegistry() *Registry {
	r := &Registry{byAsset: make(map[Asset]AssetConfig, len(defaultAssets))}
	for _, cfg := range defaultAssets {
		r.byAsset[cfg.Asset] = cfg
	}
	return r
}

// Lookup returns the configuration for a known asset, or
// bridgeerr.ErrUnknownAsset.
func (r *Registry) Lookup(asset Asset) (AssetConfig, error) {
	cfg, ok := r.byAsset[asset]
	if !ok {
		return AssetConfig{}, bridgeerr.ErrUnknownAsset
	}
	return cfg, nil
}

// LookupBySourceMint finds the asset whose source mint matches the
// given id — this is how the validator derives asset_id from on-chain
// facts instead of trusting a client-supplied field.
func (r *Registry) LookupBySourceMint(mint [32]byte) (AssetConfig, error) {
	for _, cfg := range r.byAsset {
		if cfg.SourceMintID == mint {
			return cfg, nil
		}
	}
	return AssetConfig{}, bridgeerr.ErrUnknownAsset
}

// NewRegistryFromConfigs builds a Registry from explicit, deployment-supplied
// asset configuration — the form a real network deployment uses.
func NewRegistryFromConfigs(configs []AssetConfig) *Registry {
	r := &Registry{byAsset: make(map[Asset]AssetConfig, len(configs))}
	for _, cfg := range configs {
		r.byAsset[cfg.Asset] = cfg
	}
	return r
}

// defaultAssets is the compile-time devnet registry table used by
// NewRegistry. Production deployments should call
// NewRegistryFromConfigs with network-specific mint identities instead.
var defaultAssets = []AssetConfig{
	{
		Asset:             AssetXencat,
		SourceMintID:      [32]byte{0x01},
		DestinationMintID: [32]byte{0x11},
		MintProgramID:     [32]byte{0x21},
	},
	{
		Asset:             AssetDGN,
		SourceMintID:      [32]byte{0x02},
		DestinationMintID: [32]byte{0x12},
		MintProgramID:     [32]byte{0x22},
	},
}

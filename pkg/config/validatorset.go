package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidatorSetFile is the on-disk snapshot produced by the out-of-band
// validator set rotation procedure. It is the deploy-time artifact that
// backs pkg/lightclient.ValidatorSet.
type ValidatorSetFile struct {
	Version    uint64   `yaml:"version"`
	Threshold  int      `yaml:"threshold"`
	Validators []string `yaml:"validators"` // hex-encoded Ed25519 public keys
}

// LoadValidatorSetFile reads and parses a validator set snapshot.
func LoadValidatorSetFile(path string) (*ValidatorSetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read validator set file: %w", err)
	}

	var f ValidatorSetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse validator set file: %w", err)
	}

	if f.Threshold <= 0 {
		return nil, fmt.Errorf("validator set file: threshold must be positive, got %d", f.Threshold)
	}
	if len(f.Validators) == 0 {
		return nil, fmt.Errorf("validator set file: no validators listed")
	}
	if f.Threshold > len(f.Validators) {
		return nil, fmt.Errorf("validator set file: threshold %d exceeds validator count %d", f.Threshold, len(f.Validators))
	}

	return &f, nil
}

// PublicKeys decodes the hex-encoded validator list into raw 32-byte keys.
func (f *ValidatorSetFile) PublicKeys() ([][32]byte, error) {
	keys := make([][32]byte, 0, len(f.Validators))
	for i, hexKey := range f.Validators {
		raw, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("validator[%d]: invalid hex: %w", i, err)
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("validator[%d]: expected 32 bytes, got %d", i, len(raw))
		}
		var key [32]byte
		copy(key[:], raw)
		keys = append(keys, key)
	}
	return keys, nil
}

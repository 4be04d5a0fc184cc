package attestation

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// KeyManager loads or generates the Ed25519 key pair a validator
// signs attestations with, persisting it as a hex-encoded seed file.
// Adapted from the teacher's BLS key manager, over ed25519 keys rather
// than BLS12-381 ones.
type KeyManager struct {
	keyPath    string
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

func NewKeyManager(keyPath string) *KeyManager {
	return &KeyManager{keyPath: keyPath}
}

// LoadOrGenerateKey loads the key at keyPath, generating and persisting
// a new one if the file doesn't exist yet.
func (m *KeyManager) LoadOrGenerateKey() error {
	if _, err := os.Stat(m.keyPath); os.IsNotExist(err) {
		return m.GenerateNewKey()
	}
	return m.LoadKey()
}

// LoadKey reads a hex-encoded 32-byte Ed25519 seed from keyPath.
func (m *KeyManager) LoadKey() error {
	data, err := os.ReadFile(m.keyPath)
	if err != nil {
		return fmt.Errorf("read key file: %w", err)
	}

	seed, err := hex.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("decode key file: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("key file: expected %d byte seed, got %d", ed25519.SeedSize, len(seed))
	}

	m.privateKey = ed25519.NewKeyFromSeed(seed)
	m.publicKey = m.privateKey.Public().(ed25519.PublicKey)
	return nil
}

// GenerateNewKey creates a fresh random key pair and persists the seed.
func (m *KeyManager) GenerateNewKey() error {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	m.privateKey = priv
	m.publicKey = pub
	return m.persist()
}

// GenerateFromSeed derives a key pair from an explicit 32-byte seed —
// used by tests that need deterministic validator identities.
func (m *KeyManager) GenerateFromSeed(seed []byte) error {
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	m.privateKey = ed25519.NewKeyFromSeed(seed)
	m.publicKey = m.privateKey.Public().(ed25519.PublicKey)
	return nil
}

func (m *KeyManager) persist() error {
	if m.keyPath == "" {
		return nil
	}
	if dir := filepath.Dir(m.keyPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create key directory: %w", err)
		}
	}
	seed := m.privateKey.Seed()
	if err := os.WriteFile(m.keyPath, []byte(hex.EncodeToString(seed)), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

func (m *KeyManager) PrivateKey() ed25519.PrivateKey { return m.privateKey }
func (m *KeyManager) PublicKey() ed25519.PublicKey   { return m.publicKey }
func (m *KeyManager) PublicKeyHex() string           { return hex.EncodeToString(m.publicKey) }

// Package chainstate is the in-process stand-in for the account store a
// real destination-chain runtime would provide. The light-client
// verifier and mint issuer programs in this repository are the program
// logic that would run *inside* such a chain; the chain's consensus and
// execution environment itself is an external collaborator. This
// package gives that program logic a real, durable, create-once KV
// backend to exercise against, built the same way the teacher's
// pkg/ledger.LedgerStore wraps a generic KV interface over
// cometbft-db.
package chainstate

import (
	"errors"
	"fmt"
	"sync"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrAlreadyExists is returned by CreateOnce when the key is already
// populated. Both VerifiedBurn and ProcessedBurn creation rely on this
// as their sole replay guard — there is no separate counter or set to
// keep in sync.
var ErrAlreadyExists = errors.New("chainstate: key already exists")

// ErrNotFound is returned by Get when no value has ever been written at
// a key.
var ErrNotFound = errors.New("chainstate: key not found")

// Store wraps a cometbft-db key-value engine with the semantics this
// bridge's on-chain programs need: deterministic addressing and
// create-once writes. mu serializes CreateOnce so two concurrent
// callers for the same key can't both observe it absent — a real chain
// gets this for free from its single-threaded execution of instructions
// against one account; this in-process stand-in has to serialize for
// itself instead.
type Store struct {
	mu sync.Mutex
	db dbm.DB
}

// NewStore wraps an already-open cometbft-db database. Use
// dbm.NewMemDB() for tests and an on-disk engine (e.g. goleveldb) for a
// durable deployment.
func NewStore(db dbm.DB) *Store {
	return &Store{db: db}
}

// Get reads the raw bytes at a key, or ErrNotFound.
func (s *Store) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key)
	if err != nil {
		return nil, fmt.Errorf("chainstate get: %w", err)
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// CreateOnce writes value at key iff key does not already hold a value.
// This is the atomic "account creation" primitive every PDA-addressed
// record (VerifiedBurn, ProcessedBurn) is built on: the presence of the
// key at that derived address is itself the replay guard, not a
// separately maintained set.
func (s *Store) CreateOnce(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.db.Get(key)
	if err != nil {
		return fmt.Errorf("chainstate createOnce get: %w", err)
	}
	if existing != nil {
		return ErrAlreadyExists
	}
	// Use SetSync: this is the durable commit point for on-chain state,
	// matching the teacher's kvdb.KVAdapter convention of SetSync at
	// commit time rather than a buffered async write.
	if err := s.db.SetSync(key, value); err != nil {
		return fmt.Errorf("chainstate createOnce set: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Derive computes a PDA-style deterministic address from a program id
// and an ordered list of seeds, using real Keccak256 rather than a
// placeholder hash — the same choice the teacher's unified proof
// verifier makes for Merkle inclusion checks.
func Derive(programID []byte, seeds ...[]byte) [32]byte {
	parts := make([][]byte, 0, len(seeds)+1)
	parts = append(parts, programID)
	parts = append(parts, seeds...)
	return [32]byte(crypto.Keccak256Hash(parts...))
}

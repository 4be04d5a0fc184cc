// Package ledger implements the destination chain's native balance
// store: the minimal mint/transfer surface the mint issuer needs,
// backed by the same embedded KV engine as pkg/chainstate but with its
// own keyspace, since balances are mutable where VerifiedBurn and
// ProcessedBurn records are create-once.
package ledger

import (
	"encoding/binary"
	"fmt"
	"sync"

	dbm "github.com/cometbft/cometbft-db"
)

// Store is an in-process stand-in for a destination chain's token
// ledger, keyed by (mint, account).
type Store struct {
	mu sync.Mutex
	db dbm.DB
}

func NewStore(db dbm.DB) *Store {
	return &Store{db: db}
}

func balanceKey(mint, account [32]byte) []byte {
	key := make([]byte, 0, 64)
	key = append(key, mint[:]...)
	key = append(key, account[:]...)
	return key
}

func (s *Store) balance(key []byte) (uint64, error) {
	raw, err := s.db.Get(key)
	if err != nil {
		return 0, fmt.Errorf("ledger: read balance: %w", err)
	}
	if raw == nil {
		return 0, nil
	}
	return binary.LittleEndian.Uint64(raw), nil
}

func (s *Store) setBalance(key []byte, amount uint64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, amount)
	return s.db.SetSync(key, buf)
}

// Mint credits amount to the recipient's balance for the given mint,
// creating the account implicitly if it doesn't yet hold a balance.
func (s *Store) Mint(mint [32]byte, to [32]byte, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := balanceKey(mint, to)
	bal, err := s.balance(key)
	if err != nil {
		return err
	}
	return s.setBalance(key, bal+amount)
}

// Transfer debits amount from the sender and credits it to the
// recipient, both for the same mint. It returns an error rather than
// allowing a negative balance.
func (s *Store) Transfer(mint [32]byte, from, to [32]byte, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := balanceKey(mint, from)
	fromBal, err := s.balance(fromKey)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return fmt.Errorf("ledger: insufficient balance: have %d, need %d", fromBal, amount)
	}

	toKey := balanceKey(mint, to)
	toBal, err := s.balance(toKey)
	if err != nil {
		return err
	}

	if err := s.setBalance(fromKey, fromBal-amount); err != nil {
		return err
	}
	return s.setBalance(toKey, toBal+amount)
}

// Balance reads the current balance of an account for a given mint.
func (s *Store) Balance(mint, account [32]byte) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance(balanceKey(mint, account))
}

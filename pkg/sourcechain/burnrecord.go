// Package sourcechain defines the validator's view of the burn-program
// account it reads from the source chain. The source chain's burn
// program itself is an external collaborator — this package only
// specifies the shape of what it hands back and a pluggable way to
// fetch and finality-gate it, mirroring the way the teacher's
// pkg/chain/strategy package treats each chain as a pluggable strategy
// rather than hard-coding one RPC client.
package sourcechain

import "context"

// BurnRecord is the deterministic, PDA-addressed account a burn program
// on the source chain writes when a user burns funds. The validator
// never trusts a caller's claims about its contents — it always reads
// this record itself. User, Amount, BurnNonce, Timestamp, RecordHash,
// and Bump come from the account's own fixed binary layout; SourceMintID
// is resolved separately from the burn's associated token account, and
// Slot/Confirmations are chain-tip bookkeeping the fetcher attaches
// alongside the account, none of which lives inside the account bytes
// themselves.
type BurnRecord struct {
	BurnNonce     uint64
	SourceMintID  [32]byte
	User          [32]byte
	Amount        uint64
	Timestamp     uint64
	RecordHash    [32]byte
	Bump          uint8
	Slot          uint64 // or block height, depending on the source chain
	Confirmations uint64
}

// Fetcher retrieves a BurnRecord from its deterministic address on the
// source chain. Implementations return bridgeerr.ErrBurnNotFound when
// no record exists yet at that nonce.
type Fetcher interface {
	FetchBurnRecord(ctx context.Context, burnNonce uint64) (*BurnRecord, error)
}

// FinalityChecker reports whether a BurnRecord has accumulated enough
// confirmations to be treated as final. Each source chain has its own
// notion of finality depth — this is deliberately not hard-coded so a
// different source chain can be swapped in without touching the
// attestation service.
type FinalityChecker interface {
	IsFinal(record *BurnRecord) bool
	RequiredConfirmations() uint64
}

// StaticFinalityChecker treats a record final once it has accumulated a
// fixed confirmation depth — the simplest strategy, and the one used by
// every source chain this bridge currently targets.
type StaticFinalityChecker struct {
	depth uint64
}

func NewStaticFinalityChecker(depth uint64) *StaticFinalityChecker {
	return &StaticFinalityChecker{depth: depth}
}

func (c *StaticFinalityChecker) IsFinal(record *BurnRecord) bool {
	return record.Confirmations >= c.depth
}

func (c *StaticFinalityChecker) RequiredConfirmations() uint64 {
	return c.depth
}

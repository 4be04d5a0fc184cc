package sourcechain

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/x1proto/bridge-validator/pkg/bridgeerr"
	"github.com/x1proto/bridge-validator/pkg/chainstate"
)

// burnProgramID scopes the PDA derivation for BurnRecord accounts on
// the source chain, the same Keccak-based scheme pkg/lightclient and
// pkg/mint use for their own destination-chain PDAs.
var burnProgramID = []byte("x1bridge_burn_v3")

const (
	burnRecordDiscriminatorLen = 8
	burnRecordAccountLen       = burnRecordDiscriminatorLen + 32 + 8 + 8 + 8 + 32 + 1 // user|amount|nonce|timestamp|record_hash|bump
)

// BurnRecordAddress derives the deterministic PDA a BurnRecord for
// burnNonce lives at on the source chain: seeds
// ["burn_record", burn_nonce].
func BurnRecordAddress(burnNonce uint64) [32]byte {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], burnNonce)
	return chainstate.Derive(burnProgramID, []byte("burn_record"), nonceBytes[:])
}

// RPCFetcher fetches BurnRecords from a source-chain RPC endpoint by
// their deterministic PDA. The wire envelope below is this bridge's own
// minimal convention, not a standard RPC method — whatever indexer or
// RPC shim sits in front of the real source chain is expected to speak
// it, handing back the account's raw bytes exactly as stored on chain
// plus the chain-tip bookkeeping no single account carries.
type RPCFetcher struct {
	baseURL    string
	httpClient *http.Client
}

func NewRPCFetcher(baseURL string, timeout time.Duration) *RPCFetcher {
	return &RPCFetcher{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type accountWire struct {
	Data          string `json:"data"`           // hex-encoded raw account bytes
	SourceMintID  string `json:"source_mint_id"` // mint of the burn's associated token account
	Slot          uint64 `json:"slot"`
	Confirmations uint64 `json:"confirmations"`
}

func (f *RPCFetcher) FetchBurnRecord(ctx context.Context, burnNonce uint64) (*BurnRecord, error) {
	addr := BurnRecordAddress(burnNonce)
	url := fmt.Sprintf("%s/account/%s", f.baseURL, hex.EncodeToString(addr[:]))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build burn-record request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch burn record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, bridgeerr.ErrBurnNotFound
	}
	if resp.StatusCode != http.StatusOK {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("fetch burn record: unexpected status %d: %s", resp.StatusCode, buf.String())
	}

	var wire accountWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode account envelope: %w", err)
	}

	data, err := hex.DecodeString(wire.Data)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	record, err := decodeBurnRecordAccount(data)
	if err != nil {
		return nil, err
	}
	if record.BurnNonce != burnNonce {
		return nil, fmt.Errorf("burn record account nonce %d does not match requested nonce %d", record.BurnNonce, burnNonce)
	}

	if err := decodeFixed32(wire.SourceMintID, &record.SourceMintID); err != nil {
		return nil, fmt.Errorf("decode source_mint_id: %w", err)
	}
	record.Slot = wire.Slot
	record.Confirmations = wire.Confirmations

	return record, nil
}

// decodeBurnRecordAccount parses the fixed little-endian layout every
// burn-record account has, skipping the runtime-specific discriminator
// prefix: user(32) | amount(u64) | nonce(u64) | timestamp(u64) |
// record_hash(32) | bump(1). No field outside this layout is trusted.
func decodeBurnRecordAccount(data []byte) (*BurnRecord, error) {
	if len(data) != burnRecordAccountLen {
		return nil, fmt.Errorf("burn record account: expected %d bytes, got %d", burnRecordAccountLen, len(data))
	}
	body := data[burnRecordDiscriminatorLen:]

	var record BurnRecord
	copy(record.User[:], body[0:32])
	record.Amount = binary.LittleEndian.Uint64(body[32:40])
	record.BurnNonce = binary.LittleEndian.Uint64(body[40:48])
	record.Timestamp = binary.LittleEndian.Uint64(body[48:56])
	copy(record.RecordHash[:], body[56:88])
	record.Bump = body[88]

	return &record, nil
}

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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by repository Get methods when no row matches.
var ErrNotFound = errors.New("database: record not found")

// ErrDuplicateRecord names a row that already exists under a
// repository's uniqueness constraint. The Insert methods below do not
// return it: they use ON CONFLICT DO NOTHING, so a duplicate audit-log
// row is skipped silently, since it is not itself a protocol violation.
var ErrDuplicateRecord = errors.New("database: record already exists")

type AttestationRecord struct {
	ValidatorPubKey string
	AssetID         uint8
	SetVersion      uint64
	BurnNonce       uint64
	Amount          uint64
	User            string
	Signature       string
	IssuedAt        time.Time
}

type AttestationRepository struct {
	db *sql.DB
}

func NewAttestationRepository(client *Client) *AttestationRepository {
	return &AttestationRepository{db: client.DB()}
}

func (r *AttestationRepository) Insert(ctx context.Context, rec AttestationRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO validator_attestations
			(validator_pubkey, asset_id, set_version, burn_nonce, amount, user_address, signature, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (validator_pubkey, asset_id, burn_nonce) DO NOTHING`,
		rec.ValidatorPubKey, rec.AssetID, rec.SetVersion, rec.BurnNonce, rec.Amount, rec.User, rec.Signature, rec.IssuedAt)
	if err != nil {
		return fmt.Errorf("insert attestation: %w", err)
	}
	return nil
}

func (r *AttestationRepository) ListByBurn(ctx context.Context, assetID uint8, burnNonce uint64) ([]AttestationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT validator_pubkey, asset_id, set_version, burn_nonce, amount, user_address, signature, issued_at
		FROM validator_attestations
		WHERE asset_id = $1 AND burn_nonce = $2
		ORDER BY issued_at ASC`, assetID, burnNonce)
	if err != nil {
		return nil, fmt.Errorf("list attestations: %w", err)
	}
	defer rows.Close()

	var out []AttestationRecord
	for rows.Next() {
		var rec AttestationRecord
		if err := rows.Scan(&rec.ValidatorPubKey, &rec.AssetID, &rec.SetVersion, &rec.BurnNonce, &rec.Amount, &rec.User, &rec.Signature, &rec.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan attestation: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type VerifiedBurnRecord struct {
	AssetID    uint8
	SetVersion uint64
	BurnNonce  uint64
	Amount     uint64
	User       string
	VerifiedAt time.Time
}

type VerifiedBurnRepository struct {
	db *sql.DB
}

func NewVerifiedBurnRepository(client *Client) *VerifiedBurnRepository {
	return &VerifiedBurnRepository{db: client.DB()}
}

func (r *VerifiedBurnRepository) Insert(ctx context.Context, rec VerifiedBurnRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verified_burns (asset_id, set_version, burn_nonce, amount, user_address, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (asset_id, burn_nonce, user_address) DO NOTHING`,
		rec.AssetID, rec.SetVersion, rec.BurnNonce, rec.Amount, rec.User, rec.VerifiedAt)
	if err != nil {
		return fmt.Errorf("insert verified burn: %w", err)
	}
	return nil
}

func (r *VerifiedBurnRepository) Get(ctx context.Context, assetID uint8, burnNonce uint64, user string) (*VerifiedBurnRecord, error) {
	var rec VerifiedBurnRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT asset_id, set_version, burn_nonce, amount, user_address, verified_at
		FROM verified_burns
		WHERE asset_id = $1 AND burn_nonce = $2 AND user_address = $3`,
		assetID, burnNonce, user,
	).Scan(&rec.AssetID, &rec.SetVersion, &rec.BurnNonce, &rec.Amount, &rec.User, &rec.VerifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get verified burn: %w", err)
	}
	return &rec, nil
}

type ProcessedBurnRecord struct {
	AssetID     uint8
	BurnNonce   uint64
	Amount      uint64
	User        string
	ProcessedAt time.Time
}

type ProcessedBurnRepository struct {
	db *sql.DB
}

func NewProcessedBurnRepository(client *Client) *ProcessedBurnRepository {
	return &ProcessedBurnRepository{db: client.DB()}
}

func (r *ProcessedBurnRepository) Insert(ctx context.Context, rec ProcessedBurnRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO processed_burns (asset_id, burn_nonce, amount, user_address, processed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (asset_id, burn_nonce, user_address) DO NOTHING`,
		rec.AssetID, rec.BurnNonce, rec.Amount, rec.User, rec.ProcessedAt)
	if err != nil {
		return fmt.Errorf("insert processed burn: %w", err)
	}
	return nil
}

func (r *ProcessedBurnRepository) Get(ctx context.Context, assetID uint8, burnNonce uint64, user string) (*ProcessedBurnRecord, error) {
	var rec ProcessedBurnRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT asset_id, burn_nonce, amount, user_address, processed_at
		FROM processed_burns
		WHERE asset_id = $1 AND burn_nonce = $2 AND user_address = $3`,
		assetID, burnNonce, user,
	).Scan(&rec.AssetID, &rec.BurnNonce, &rec.Amount, &rec.User, &rec.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get processed burn: %w", err)
	}
	return &rec, nil
}

// Package indexer is the off-chain harness that, once called with the
// outcome of a destination chain program call, mirrors it into
// the audit database and the optional Firestore dashboard feed. It
// never sits on the hot path: a write failure here is logged, not
// propagated, because the on-chain VerifiedBurn/ProcessedBurn record
// is already the canonical fact — this harness only copies it out for
// humans to query.
package indexer

import (
	"context"
	"encoding/hex"
	"log"

	"github.com/x1proto/bridge-validator/pkg/database"
	"github.com/x1proto/bridge-validator/pkg/firestore"
	"github.com/x1proto/bridge-validator/pkg/lightclient"
	"github.com/x1proto/bridge-validator/pkg/mint"
)

// Indexer mirrors a record that a successful Verifier or Program call
// has just created to Postgres and (if enabled) Firestore. It does not
// hold or call the Verifier or Program itself; the caller hands it the
// record.
type Indexer struct {
	verifiedBurns  *database.VerifiedBurnRepository
	processedBurns *database.ProcessedBurnRepository
	mirror         *firestore.Mirror
	logger         *log.Logger
}

func New(verifiedBurns *database.VerifiedBurnRepository, processedBurns *database.ProcessedBurnRepository, mirror *firestore.Mirror, logger *log.Logger) *Indexer {
	if logger == nil {
		logger = log.New(log.Writer(), "[Indexer] ", log.LstdFlags)
	}
	return &Indexer{
		verifiedBurns:  verifiedBurns,
		processedBurns: processedBurns,
		mirror:         mirror,
		logger:         logger,
	}
}

// RecordVerifiedBurn mirrors a VerifiedBurn the light client just
// created. Call this immediately after a successful
// Verifier.SubmitBurnAttestation.
func (ix *Indexer) RecordVerifiedBurn(ctx context.Context, v *lightclient.VerifiedBurn) {
	if ix.verifiedBurns != nil {
		rec := database.VerifiedBurnRecord{
			AssetID:    v.AssetID,
			SetVersion: v.SetVersion,
			BurnNonce:  v.BurnNonce,
			Amount:     v.Amount,
			User:       hexUser(v.User),
			VerifiedAt: v.VerifiedAt,
		}
		if err := ix.verifiedBurns.Insert(ctx, rec); err != nil {
			ix.logger.Printf("failed to mirror verified burn asset=%d nonce=%d: %v", v.AssetID, v.BurnNonce, err)
		}
	}
	if ix.mirror != nil {
		event := firestore.VerifiedBurnEvent{
			AssetID:    v.AssetID,
			SetVersion: v.SetVersion,
			BurnNonce:  v.BurnNonce,
			Amount:     v.Amount,
			User:       hexUser(v.User),
			VerifiedAt: v.VerifiedAt,
		}
		if err := ix.mirror.PublishVerifiedBurn(ctx, event); err != nil {
			ix.logger.Printf("failed to publish verified burn asset=%d nonce=%d: %v", v.AssetID, v.BurnNonce, err)
		}
	}
}

// RecordProcessedBurn mirrors a ProcessedBurn the mint issuer just
// created. Call this immediately after a successful
// Program.MintFromBurn.
func (ix *Indexer) RecordProcessedBurn(ctx context.Context, p *mint.ProcessedBurn) {
	if ix.processedBurns != nil {
		rec := database.ProcessedBurnRecord{
			AssetID:     p.AssetID,
			BurnNonce:   p.BurnNonce,
			Amount:      p.Amount,
			User:        hexUser(p.User),
			ProcessedAt: p.ProcessedAt,
		}
		if err := ix.processedBurns.Insert(ctx, rec); err != nil {
			ix.logger.Printf("failed to mirror processed burn asset=%d nonce=%d: %v", p.AssetID, p.BurnNonce, err)
		}
	}
	if ix.mirror != nil {
		event := firestore.ProcessedBurnEvent{
			AssetID:     p.AssetID,
			BurnNonce:   p.BurnNonce,
			Amount:      p.Amount,
			User:        hexUser(p.User),
			ProcessedAt: p.ProcessedAt,
		}
		if err := ix.mirror.PublishProcessedBurn(ctx, event); err != nil {
			ix.logger.Printf("failed to publish processed burn asset=%d nonce=%d: %v", p.AssetID, p.BurnNonce, err)
		}
	}
}

func hexUser(user [32]byte) string {
	return hex.EncodeToString(user[:])
}

// Package firestore provides an optional write-through mirror of
// verified/processed burns into Google Cloud Firestore, for dashboards
// that want to watch bridge activity without querying Postgres
// directly. It is always safe to construct and call — when disabled it
// is a no-op, the same shape the teacher's observability mirror used
// so callers never need to branch on whether it's configured.
package firestore

import (
	"context"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

type ClientConfig struct {
	Enabled         bool
	ProjectID       string
	CredentialsFile string
	Logger          *log.Logger
}

func DefaultConfig() ClientConfig {
	return ClientConfig{
		Enabled: false,
		Logger:  log.New(log.Writer(), "[Firestore] ", log.LstdFlags),
	}
}

// Mirror publishes bridge audit events to Firestore. A disabled or
// unconfigured Mirror silently drops every publish call.
type Mirror struct {
	config ClientConfig
	client *firestore.Client
}

func NewMirror(ctx context.Context, cfg ClientConfig) (*Mirror, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[Firestore] ", log.LstdFlags)
	}
	if !cfg.Enabled {
		cfg.Logger.Println("Firestore mirror disabled, running in no-op mode")
		return &Mirror{config: cfg}, nil
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id cannot be empty when enabled")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init firestore client: %w", err)
	}

	cfg.Logger.Printf("Connected to Firestore project %s", cfg.ProjectID)
	return &Mirror{config: cfg, client: client}, nil
}

func (m *Mirror) enabled() bool { return m.config.Enabled && m.client != nil }

func (m *Mirror) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

type VerifiedBurnEvent struct {
	AssetID    uint8     `firestore:"asset_id"`
	SetVersion uint64    `firestore:"set_version"`
	BurnNonce  uint64    `firestore:"burn_nonce"`
	Amount     uint64    `firestore:"amount"`
	User       string    `firestore:"user"`
	VerifiedAt time.Time `firestore:"verified_at"`
}

func (m *Mirror) PublishVerifiedBurn(ctx context.Context, event VerifiedBurnEvent) error {
	if !m.enabled() {
		return nil
	}
	docID := fmt.Sprintf("%d_%d_%s", event.AssetID, event.BurnNonce, event.User)
	_, err := m.client.Collection("verified_burns").Doc(docID).Set(ctx, event)
	if err != nil {
		return fmt.Errorf("publish verified burn: %w", err)
	}
	return nil
}

type ProcessedBurnEvent struct {
	AssetID     uint8     `firestore:"asset_id"`
	BurnNonce   uint64    `firestore:"burn_nonce"`
	Amount      uint64    `firestore:"amount"`
	User        string    `firestore:"user"`
	ProcessedAt time.Time `firestore:"processed_at"`
}

func (m *Mirror) PublishProcessedBurn(ctx context.Context, event ProcessedBurnEvent) error {
	if !m.enabled() {
		return nil
	}
	docID := fmt.Sprintf("%d_%d_%s", event.AssetID, event.BurnNonce, event.User)
	_, err := m.client.Collection("processed_burns").Doc(docID).Set(ctx, event)
	if err != nil {
		return fmt.Errorf("publish processed burn: %w", err)
	}
	return nil
}

package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMirrorDisabledIsNoOp(t *testing.T) {
	cfg := DefaultConfig()
	mirror, err := NewMirror(t.Context(), cfg)
	require.NoError(t, err)
	assert.False(t, mirror.enabled())

	err = mirror.PublishVerifiedBurn(t.Context(), VerifiedBurnEvent{
		AssetID:    1,
		BurnNonce:  1,
		Amount:     100,
		User:       "aa",
		VerifiedAt: time.Now().UTC(),
	})
	assert.NoError(t, err)

	err = mirror.PublishProcessedBurn(t.Context(), ProcessedBurnEvent{
		AssetID:     1,
		BurnNonce:   1,
		Amount:      100,
		User:        "aa",
		ProcessedAt: time.Now().UTC(),
	})
	assert.NoError(t, err)

	assert.NoError(t, mirror.Close())
}

func TestNewMirrorEnabledRequiresProjectID(t *testing.T) {
	cfg := ClientConfig{Enabled: true}
	_, err := NewMirror(t.Context(), cfg)
	assert.Error(t, err)
}

package indexer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x1proto/bridge-validator/pkg/firestore"
	"github.com/x1proto/bridge-validator/pkg/lightclient"
	"github.com/x1proto/bridge-validator/pkg/mint"
)

// Without a live Postgres or Firestore project, these tests exercise
// the nil-repository / disabled-mirror no-op paths: RecordVerifiedBurn
// and RecordProcessedBurn must never panic when run with a harness
// that has nothing configured to mirror to.
func TestRecordVerifiedBurnWithNothingConfiguredIsANoOp(t *testing.T) {
	ix := New(nil, nil, nil, nil)
	v := &lightclient.VerifiedBurn{
		AssetID:    1,
		BurnNonce:  7,
		User:       [32]byte{0x09},
		Amount:     500,
		SetVersion: 1,
		VerifiedAt: time.Now().UTC(),
	}
	require.NotPanics(t, func() { ix.RecordVerifiedBurn(t.Context(), v) })
}

func TestRecordProcessedBurnWithDisabledMirrorIsANoOp(t *testing.T) {
	mirror, err := firestore.NewMirror(t.Context(), firestore.DefaultConfig())
	require.NoError(t, err)

	ix := New(nil, nil, mirror, nil)
	p := &mint.ProcessedBurn{
		AssetID:     1,
		BurnNonce:   7,
		User:        [32]byte{0x09},
		Amount:      500,
		ProcessedAt: time.Now().UTC(),
	}
	require.NotPanics(t, func() { ix.RecordProcessedBurn(t.Context(), p) })
}

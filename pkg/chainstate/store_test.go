package chainstate

import (
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := dbm.NewMemDB()
	return NewStore(db)
}

func TestCreateOnceRejectsSecondWrite(t *testing.T) {
	s := newTestStore(t)
	key := []byte("verified_burn_v3:1:42")

	require.NoError(t, s.CreateOnce(key, []byte("first")))

	err := s.CreateOnce(key, []byte("second"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got, "the already-existing value must not be overwritten")
}

func TestGetUnknownKeyReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get([]byte("nonexistent"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeriveIsDeterministicAndSeedOrderSensitive(t *testing.T) {
	programID := []byte{0x01, 0x02}
	seedA := []byte("a")
	seedB := []byte("b")

	addr1 := Derive(programID, seedA, seedB)
	addr2 := Derive(programID, seedA, seedB)
	assert.Equal(t, addr1, addr2)

	addr3 := Derive(programID, seedB, seedA)
	assert.NotEqual(t, addr1, addr3, "seed order must affect the derived address")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeValidatorSetFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "validator-set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadValidatorSetFileValidKeys(t *testing.T) {
	path := writeValidatorSetFile(t, `
version: 3
threshold: 2
validators:
  - "0101010101010101010101010101010101010101010101010101010101010101"
  - "0202020202020202020202020202020202020202020202020202020202020202"
`)
	f, err := LoadValidatorSetFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), f.Version)
	assert.Equal(t, 2, f.Threshold)
	assert.Len(t, f.Validators, 2)
}

func TestLoadValidatorSetFileRejectsThresholdExceedingCount(t *testing.T) {
	path := writeValidatorSetFile(t, `
version: 1
threshold: 5
validators:
  - "0101010101010101010101010101010101010101010101010101010101010101"
`)
	_, err := LoadValidatorSetFile(path)
	assert.Error(t, err)
}

func TestLoadValidatorSetFileRejectsZeroThreshold(t *testing.T) {
	path := writeValidatorSetFile(t, `
version: 1
threshold: 0
validators:
  - "0101010101010101010101010101010101010101010101010101010101010101"
`)
	_, err := LoadValidatorSetFile(path)
	assert.Error(t, err)
}

func TestLoadValidatorSetFileRejectsEmptyValidators(t *testing.T) {
	path := writeValidatorSetFile(t, `
version: 1
threshold: 1
validators: []
`)
	_, err := LoadValidatorSetFile(path)
	assert.Error(t, err)
}

func TestPublicKeysDecodesHex(t *testing.T) {
	f := &ValidatorSetFile{
		Version:   1,
		Threshold: 1,
		Validators: []string{
			"0101010101010101010101010101010101010101010101010101010101010101",
		},
	}

	keys, err := f.PublicKeys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, byte(0x01), keys[0][0])
}

func TestPublicKeysRejectsWrongLength(t *testing.T) {
	f := &ValidatorSetFile{Version: 1, Threshold: 1, Validators: []string{"abcd"}}
	_, err := f.PublicKeys()
	assert.Error(t, err)
}

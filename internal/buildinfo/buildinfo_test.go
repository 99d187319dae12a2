package buildinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBump_IncrementsForSameVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".buildinfo")
	require.NoError(t, os.WriteFile(path, []byte("41 1.0.0"), 0o600))

	n, err := Bump(path, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = Bump(path, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 43, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "43 1.0.0", string(data))
}

func TestBump_ResetsOnVersionChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".buildinfo")
	require.NoError(t, os.WriteFile(path, []byte("99 1.0.0"), 0o600))

	n, err := Bump(path, "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBump_MissingOrInvalidFileStartsAtOne(t *testing.T) {
	dir := t.TempDir()

	n, err := Bump(filepath.Join(dir, "missing"), "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not a counter"), 0o600))
	n, err = Bump(garbage, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBump_RejectsWhitespaceVersion(t *testing.T) {
	_, err := Bump(filepath.Join(t.TempDir(), ".buildinfo"), "1.0 beta")
	require.Error(t, err)
}

func TestBump_EmptyVersionStillCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".buildinfo")

	for want := 1; want <= 3; want++ {
		n, err := Bump(path, "")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := Bump(path, "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

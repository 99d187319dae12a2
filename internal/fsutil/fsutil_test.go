package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out", "static")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "css", "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app.js"), []byte("js"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "css", "vendor", "base.css"), []byte("css"), 0o644))

	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "app.js"), []byte("stale and longer"), 0o644))

	require.NoError(t, CopyDir(src, dst))

	got, err := os.ReadFile(filepath.Join(dst, "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "js", string(got))

	got, err = os.ReadFile(filepath.Join(dst, "css", "vendor", "base.css"))
	require.NoError(t, err)
	assert.Equal(t, "css", string(got))
}

func TestCopyDir_MissingSource(t *testing.T) {
	err := CopyDir(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestIsTempFile(t *testing.T) {
	assert.True(t, IsTempFile("/x/.texts_en.po.tmp-12345"))
	assert.False(t, IsTempFile("/x/texts_en.po"))
	assert.False(t, IsTempFile("/x/.postinfo.json"))
}

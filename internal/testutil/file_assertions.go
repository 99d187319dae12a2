package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// FileAssertions checks the state of a directory tree.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates assertions relative to baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// Exists asserts that every rel names a regular file.
func (fa *FileAssertions) Exists(rels ...string) *FileAssertions {
	fa.t.Helper()
	for _, rel := range rels {
		assert.FileExists(fa.t, fa.path(rel))
	}
	return fa
}

// Missing asserts that rel does not exist.
func (fa *FileAssertions) Missing(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoFileExists(fa.t, fa.path(rel))
	return fa
}

// Contents asserts the exact contents of rel.
func (fa *FileAssertions) Contents(rel, want string) *FileAssertions {
	fa.t.Helper()
	data, err := os.ReadFile(fa.path(rel))
	if assert.NoError(fa.t, err) {
		assert.Equal(fa.t, want, string(data), rel)
	}
	return fa
}

// Contains asserts that rel contains want.
func (fa *FileAssertions) Contains(rel, want string) *FileAssertions {
	fa.t.Helper()
	data, err := os.ReadFile(fa.path(rel))
	if assert.NoError(fa.t, err) {
		assert.Contains(fa.t, string(data), want, rel)
	}
	return fa
}

// SameContents asserts that two files are byte-identical.
func (fa *FileAssertions) SameContents(a, b string) *FileAssertions {
	fa.t.Helper()
	left, errA := os.ReadFile(fa.path(a))
	right, errB := os.ReadFile(fa.path(b))
	if assert.NoError(fa.t, errA) && assert.NoError(fa.t, errB) {
		assert.Equal(fa.t, string(left), string(right), "%s vs %s", a, b)
	}
	return fa
}

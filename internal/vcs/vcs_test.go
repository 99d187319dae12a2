package vcs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/testutil"
)

func TestDetect_NotARepository(t *testing.T) {
	info, err := Detect(t.TempDir())
	require.NoError(t, err)
	assert.False(t, info.Found())
	assert.Empty(t, info.ShortCommit())
}

func TestDetect_EmptyRepository(t *testing.T) {
	p := testutil.NewProject(t)
	p.InitGitRepo()

	info, err := Detect(p.Root)
	require.NoError(t, err)
	assert.True(t, info.Found())
	assert.Empty(t, info.Commit)
}

func TestDetect_CommitFromSubdirectory(t *testing.T) {
	p := testutil.NewProject(t).Page("index", "hi")
	repo := p.InitGitRepo()
	hash := p.Commit(repo, "initial", "pages/index/page.html")

	info, err := Detect(p.Path("pages"))
	require.NoError(t, err)
	assert.Equal(t, hash.String(), info.Commit)
	assert.Equal(t, "master", info.Branch)
	assert.Len(t, info.ShortCommit(), 7)

	wantMeta, err := filepath.EvalSymlinks(p.Path(".git"))
	require.NoError(t, err)
	gotMeta, err := filepath.EvalSymlinks(info.MetadataDir)
	require.NoError(t, err)
	assert.Equal(t, wantMeta, gotMeta)
}

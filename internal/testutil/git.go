package testutil

import (
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// InitGitRepo initializes a repository in the project root.
func (p *Project) InitGitRepo() *git.Repository {
	p.t.Helper()
	repo, err := git.PlainInit(p.Root, false)
	require.NoError(p.t, err)
	return repo
}

// Commit stages paths and commits them, returning the commit hash.
func (p *Project) Commit(repo *git.Repository, msg string, paths ...string) plumbing.Hash {
	p.t.Helper()
	wt, err := repo.Worktree()
	require.NoError(p.t, err)
	for _, path := range paths {
		_, err := wt.Add(path)
		require.NoError(p.t, err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(p.t, err)
	return hash
}

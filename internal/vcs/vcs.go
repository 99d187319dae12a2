// Package vcs detects version control metadata for a project directory.
package vcs

import (
	"errors"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Info describes the repository a project lives in. The zero value means the
// project is not under version control.
type Info struct {
	// MetadataDir is the absolute path of the repository metadata (.git).
	MetadataDir string
	// Worktree is the absolute root of the working tree.
	Worktree string
	Commit   string
	Branch   string
}

// Found reports whether a repository was detected.
func (i Info) Found() bool { return i.MetadataDir != "" }

// ShortCommit returns the abbreviated commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// Detect opens the repository containing dir, searching parent directories.
// A directory outside any repository yields a zero Info and no error; a
// repository without commits yields an Info with an empty Commit.
func Detect(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, err
	}

	var info Info
	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		info.MetadataDir = absolute(fs.Filesystem().Root())
	}
	if wt, err := repo.Worktree(); err == nil {
		info.Worktree = absolute(wt.Filesystem.Root())
		if info.MetadataDir == "" {
			info.MetadataDir = filepath.Join(info.Worktree, git.GitDirName)
		}
	}

	head, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return info, nil
	case err != nil:
		return info, err
	}
	info.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}

func absolute(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

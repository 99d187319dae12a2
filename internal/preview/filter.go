package preview

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/generator"
)

// Filter decides which filesystem events are user edits. Events caused by
// the generator's own writes and editor scratch files are discarded.
type Filter struct {
	output    string
	vcsDir    string
	buildInfo string
	history   string
	textfile  string
}

// NewFilter builds the filter for cfg. vcsDir is the version control metadata
// directory, or empty when the project is not under version control.
func NewFilter(cfg *config.Config, vcsDir string) *Filter {
	return &Filter{
		output:    filepath.Clean(cfg.Site.OutputPath),
		vcsDir:    cleanOrEmpty(vcsDir),
		buildInfo: filepath.Clean(cfg.BuildInfoPath()),
		history:   cleanOrEmpty(cfg.Generator.HistoryDB),
		textfile:  cleanOrEmpty(cfg.Generator.MetricsTextfile),
	}
}

func cleanOrEmpty(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// SkipDir reports whether dir must not be watched at all.
func (f *Filter) SkipDir(dir string) bool {
	dir = filepath.Clean(dir)
	if within(dir, f.output) || within(dir, f.vcsDir) {
		return true
	}
	return filepath.Base(dir) == ".git"
}

// Ignore reports whether an event on path should be discarded.
func (f *Filter) Ignore(path string) bool {
	path = filepath.Clean(path)
	if path == f.buildInfo || within(path, f.output) || within(path, f.vcsDir) || hasGitComponent(path) {
		return true
	}
	if f.history != "" && strings.HasPrefix(path, f.history) {
		// the database and its -journal, -wal and -shm siblings
		return true
	}
	if f.textfile != "" && strings.HasPrefix(path, f.textfile) {
		return true
	}

	base := filepath.Base(path)
	if base == generator.PostInfoFile {
		return true
	}
	return fsutil.IsTempFile(base) || isEditorNoise(base)
}

func within(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func hasGitComponent(path string) bool {
	for part := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}

// isEditorNoise matches swap, backup and lock files written by editors and
// file managers.
func isEditorNoise(base string) bool {
	switch {
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, ".#"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == ".DS_Store",
		base == "Thumbs.db",
		base == "4913": // vim write probe
		return true
	}
	return false
}

package preview

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

type changeLog struct {
	mu    sync.Mutex
	paths []string
}

func (c *changeLog) add(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, p)
}

func (c *changeLog) has(p string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, got := range c.paths {
		if got == p {
			return true
		}
	}
	return false
}

func (c *changeLog) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func startObserver(t *testing.T) (*config.Config, *changeLog) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages", "index"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "site", "en"), 0o755))
	cfg := config.Defaults(root)
	cfg.Site.OutputPath = filepath.Join(root, "site")

	o, err := NewObserver(root, NewFilter(cfg, ""), nil)
	require.NoError(t, err)

	changes := &changeLog{}
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		o.Run(ctx, changes.add)
	}()
	t.Cleanup(func() {
		cancel()
		_ = o.Close()
		<-done
	})
	return cfg, changes
}

func TestObserver_ReportsFileEdits(t *testing.T) {
	cfg, changes := startObserver(t)

	page := filepath.Join(cfg.Root, "pages", "index", "page.html")
	require.NoError(t, os.WriteFile(page, []byte("x"), 0o600))

	require.Eventually(t, func() bool { return changes.has(page) }, 5*time.Second, 10*time.Millisecond)
}

func TestObserver_IgnoresOutputAndBookkeeping(t *testing.T) {
	cfg, changes := startObserver(t)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Site.OutputPath, "en", "x.html"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(cfg.BuildInfoPath(), []byte("1 0.0.0"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Root, "pages", "index", ".postinfo.json"), []byte("{}"), 0o600))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, changes.len())
}

func TestObserver_WatchesNewDirectories(t *testing.T) {
	cfg, changes := startObserver(t)

	dir := filepath.Join(cfg.Root, "posts", "fresh")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, changes.len(), "empty directories are not changes")

	post := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(post, []byte("x"), 0o600))
	require.Eventually(t, func() bool { return changes.has(post) }, 5*time.Second, 10*time.Millisecond)
}

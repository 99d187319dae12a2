package preview

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

type rebuildLog struct {
	mu       sync.Mutex
	triggers []string
}

func (l *rebuildLog) rebuild(out string) RebuildFunc {
	return func(_ context.Context, trigger string) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.triggers = append(l.triggers, trigger)
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		// the loop must not react to its own output
		return os.WriteFile(filepath.Join(out, "index.html"), []byte(strconv.Itoa(len(l.triggers))), 0o600)
	}
}

func (l *rebuildLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.triggers...)
}

func watchConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages", "index"), 0o755))
	cfg := config.Defaults(root)
	cfg.Site.OutputPath = filepath.Join(root, "site")
	cfg.Generator.LiveServerPort = 0
	cfg.Generator.DebounceWindow = config.Duration(100 * time.Millisecond)
	cfg.Generator.DebounceMaxDelay = config.Duration(500 * time.Millisecond)
	return cfg
}

func TestRun_RebuildsOnChangeAndServesOutput(t *testing.T) {
	cfg := watchConfig(t)
	log := &rebuildLog{}
	ready := make(chan *Server, 1)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Config:   cfg,
			Rebuild:  log.rebuild(cfg.Site.OutputPath),
			Recorder: metrics.NoopRecorder{},
			Ready:    func(s *Server) { ready <- s },
		})
	}()

	var srv *Server
	select {
	case srv = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not start")
	}
	assert.Equal(t, []string{ReasonInitial}, log.snapshot())

	port := srv.Addr().(*net.TCPAddr).Port
	resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/index.html")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "1", string(body))

	page := filepath.Join(cfg.Root, "pages", "index", "page.html")
	require.NoError(t, os.WriteFile(page, []byte("v1"), 0o600))
	require.NoError(t, os.WriteFile(page, []byte("v2"), 0o600))

	require.Eventually(t, func() bool {
		return len(log.snapshot()) >= 2
	}, 5*time.Second, 20*time.Millisecond)

	// bookkeeping and output writes stay quiet
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []string{ReasonInitial, ReasonChange}, log.snapshot())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestRun_PortInUseFails(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := watchConfig(t)
	cfg.Generator.LiveServerPort = ln.Addr().(*net.TCPAddr).Port

	called := false
	err = Run(t.Context(), Options{
		Config: cfg,
		Rebuild: func(context.Context, string) error {
			called = true
			return nil
		},
	})
	require.Error(t, err)
	assert.False(t, called)
}

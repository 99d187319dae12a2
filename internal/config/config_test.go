package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoad_MissingFilesYieldDefaultsAndWarnings(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.True(t, ferrors.OnlyWarnings(err), "missing files must only warn: %v", err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	assert.Equal(t, []string{"en"}, cfg.Site.Languages)
	assert.Equal(t, filepath.Join(root, "site"), cfg.Site.OutputPath)
	assert.Equal(t, filepath.Join(root, "static"), cfg.Site.StaticPath)
	assert.Equal(t, 300*time.Millisecond, cfg.Generator.DebounceWindow.Std())
	assert.Equal(t, 2*time.Second, cfg.Generator.DebounceMaxDelay.Std())
	assert.Equal(t, 1, cfg.Workers())
}

func TestLoad_ParsesBothFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, GeneratorFile, `{
    "use_threads": true,
    "thread_count": 6,
    "live_server_port": 9090,
    "debounce_window": "150ms",
    "debounce_max_delay": 5000,
    "rebuild_interval": "10m",
    "history_db": "history.db"
}`)
	writeFile(t, root, SiteFile, `{
    "site_name": "Test",
    "version": "2.1.0",
    "site_keywords": "go, static ,site",
    "site_index_page": "home",
    "site_pages": ["home", "about"],
    "site_posts": ["first"],
    "site_static_path": "assets",
    "site_output_path": "public",
    "site_languages": ["de", "en"],
    "site_translation_path": "i18n"
}`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Workers())
	assert.Equal(t, 9090, cfg.Generator.LiveServerPort)
	assert.Equal(t, 150*time.Millisecond, cfg.Generator.DebounceWindow.Std())
	assert.Equal(t, 5*time.Second, cfg.Generator.DebounceMaxDelay.Std())
	assert.Equal(t, 10*time.Minute, cfg.Generator.RebuildInterval.Std())
	assert.Equal(t, filepath.Join(root, "history.db"), cfg.Generator.HistoryDB)

	assert.Equal(t, Keywords{"go", "static", "site"}, cfg.Site.Keywords)
	assert.Equal(t, "de", cfg.DefaultLanguage())
	assert.Equal(t, filepath.Join(root, "public"), cfg.Site.OutputPath)
	assert.Equal(t, filepath.Join(root, "i18n", "texts_en.po"), cfg.CatalogPath("en"))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SITEGEN_TEST_AUTHOR", "Ada")
	writeFile(t, root, GeneratorFile, `{}`)
	writeFile(t, root, SiteFile, `{"site_author": "${SITEGEN_TEST_AUTHOR}"}`)

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "Ada", cfg.Site.Author)
}

func TestLoad_InvalidFileIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, GeneratorFile, `{"thread_count": [1, 2`)

	cfg, err := Load(root)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.False(t, ferrors.OnlyWarnings(err))
	assert.True(t, ferrors.HasSeverity(err, ferrors.SeverityFatal))
}

func TestLoad_RejectsEmptyLanguages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, GeneratorFile, `{}`)
	writeFile(t, root, SiteFile, `{"site_languages": []}`)

	_, err := Load(root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_RejectsUnknownLogLevel(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, GeneratorFile, `{"log_level": "loud"}`)
	writeFile(t, root, SiteFile, `{}`)

	_, err := Load(root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Contains(t, err.Error(), "log_level")
}

func TestLoad_RejectsUnknownLogFormat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, GeneratorFile, `{"log_format": "xml"}`)
	writeFile(t, root, SiteFile, `{}`)

	_, err := Load(root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Contains(t, err.Error(), "log_format")
}

func TestWorkers(t *testing.T) {
	tests := []struct {
		name    string
		threads bool
		count   int
		want    int
	}{
		{"disabled", false, 8, 1},
		{"zero count", true, 0, 1},
		{"negative count", true, -3, 1},
		{"enabled", true, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Generator: GeneratorConfig{UseThreads: tt.threads, ThreadCount: tt.count}}
			assert.Equal(t, tt.want, cfg.Workers())
		})
	}
}

func TestWithOverrides_ReturnsNewValue(t *testing.T) {
	base := Defaults("/project")
	base.resolvePaths()

	threads := true
	count := 8
	got := base.WithOverrides(Overrides{
		UseThreads:  &threads,
		ThreadCount: &count,
		OutputPath:  "out",
		Languages:   []string{"fr", "en"},
	})

	assert.Equal(t, 8, got.Workers())
	assert.Equal(t, filepath.Join("/project", "out"), got.Site.OutputPath)
	assert.Equal(t, []string{"fr", "en"}, got.Site.Languages)

	assert.Equal(t, 1, base.Workers())
	assert.Equal(t, []string{"en"}, base.Site.Languages)
	assert.Equal(t, filepath.Join("/project", "site"), base.Site.OutputPath)
}

func TestLogLevel_Slog(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevel(" Debug ").Slog().String())
	assert.Equal(t, "WARN", LogLevelWarn.Slog().String())
	assert.Equal(t, "INFO", LogLevel("verbose").Slog().String())
	assert.Equal(t, "WARN", LogLevel("Warning").Slog().String())
	assert.Equal(t, "INFO", LogLevel("").Slog().String())
	assert.True(t, LogFormat("JSON").IsJSON())
	assert.True(t, LogFormat(" json ").IsJSON())
	assert.False(t, LogFormat("").IsJSON())
	assert.False(t, LogFormatText.IsJSON())
}

func TestInit(t *testing.T) {
	root := t.TempDir()

	written, err := Init(root, false)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "de"}, cfg.Site.Languages)
	assert.Equal(t, 4, cfg.Workers())

	_, err = Init(root, false)
	require.Error(t, err)

	_, err = Init(root, true)
	require.NoError(t, err)
}

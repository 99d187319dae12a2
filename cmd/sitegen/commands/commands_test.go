package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/testutil"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func writeProject(t *testing.T) *testutil.Project {
	t.Helper()
	return testutil.NewProject(t).
		GeneratorConfig(map[string]any{
			"use_threads":      true,
			"thread_count":     2,
			"history_db":       "history.db",
			"metrics_textfile": "metrics/sitegen.prom",
		}).
		SiteConfig(map[string]any{
			"site_name":       "Test",
			"version":         "1.0.0",
			"site_index_page": "index",
			"site_pages":      []string{"index"},
			"site_posts":      []string{"hello"},
			"site_languages":  []string{"en", "de"},
		}).
		Page("index", `{{ t "greeting" }}`).
		StringTable("pages/index", "greeting", "Hello").
		Post("hello", `{{ ._DATE_CREATED }}`)
}

func TestCLI_DefaultCommandIsBuild(t *testing.T) {
	_, ctx := parse(t, "--root", t.TempDir())
	assert.Equal(t, "build", ctx.Command())
}

func TestCLI_Overrides(t *testing.T) {
	cli, _ := parse(t, "--root", t.TempDir(), "--use-threads=true", "--thread-count", "8", "--site-languages", "fr,it", "build")

	o := cli.overrides()
	require.NotNil(t, o.UseThreads)
	assert.True(t, *o.UseThreads)
	require.NotNil(t, o.ThreadCount)
	assert.Equal(t, 8, *o.ThreadCount)
	assert.Equal(t, []string{"fr", "it"}, o.Languages)
}

func TestLoadConfig_MissingFilesUseDefaults(t *testing.T) {
	cli, _ := parse(t, "--root", t.TempDir(), "--site-output-path", "public")

	cfg, err := cli.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Root, "public"), cfg.Site.OutputPath)
	assert.Equal(t, []string{"en"}, cfg.Site.Languages)
}

func TestLoadConfig_InvalidFileFails(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.json"), []byte(`{"thread_count": [`), 0o600))
	cli, _ := parse(t, "--root", root)

	_, err := cli.LoadConfig()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestGatherThenBuild(t *testing.T) {
	p := writeProject(t)

	cli, ctx := parse(t, "--root", p.Root, "gather")
	require.NoError(t, ctx.Run(&Global{}, cli))
	p.Assert("translations").Contains("texts_de.po", `msgid "greeting"`)

	cli, ctx = parse(t, "--root", p.Root, "build", "--strict")
	require.NoError(t, ctx.Run(&Global{}, cli))

	p.Assert("site").
		Contents("index.html", "Hello").
		Exists("de/posts/hello.html", "en/posts/hello.html")
	p.Assert("metrics").Exists("sitegen.prom")
	assert.Equal(t, "1 1.0.0", strings.TrimSpace(p.Read(".buildinfo")))

	store, err := eventstore.NewSQLiteStore(p.Path("history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	summaries, err := eventstore.Recent(t.Context(), store, 5)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "success", summaries[0].Status)
	assert.Equal(t, 1, summaries[0].BuildNumber)
}

func TestBuild_StrictFailsOnRenderErrors(t *testing.T) {
	p := writeProject(t).Page("index", `{{ if }`)

	cli, ctx := parse(t, "--root", p.Root, "build")
	require.NoError(t, ctx.Run(&Global{}, cli))

	cli, ctx = parse(t, "--root", p.Root, "build", "--strict")
	err := ctx.Run(&Global{}, cli)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRender))
	assert.Equal(t, "2 1.0.0", strings.TrimSpace(p.Read(".buildinfo")))
}

func TestInit_WritesExamples(t *testing.T) {
	root := t.TempDir()
	cli, ctx := parse(t, "--root", root, "init")
	require.NoError(t, ctx.Run(&Global{}, cli))
	assert.FileExists(t, filepath.Join(root, "config.json"))
	assert.FileExists(t, filepath.Join(root, "site.config.json"))

	cli, ctx = parse(t, "--root", root, "init")
	require.Error(t, ctx.Run(&Global{}, cli))
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Equal(t, "No builds recorded\n", buf.String())

	buf.Reset()
	require.NoError(t, printHistory(&buf, []*eventstore.BuildSummary{{
		BuildNumber: 3,
		Status:      "partial",
		StartedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Rendered:    5,
		Failed:      1,
		Failures:    []eventstore.RenderMeta{{Element: "about", Kind: "page", Lang: "de", Error: "parse template: boom\nmore"}},
	}}))
	out := buf.String()
	assert.Contains(t, out, "partial")
	assert.Contains(t, out, "page about [de]: parse template: boom")
	assert.NotContains(t, out, "more")
}

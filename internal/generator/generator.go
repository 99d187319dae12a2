// Package generator turns the project tree into the multilingual output tree.
//
// A pass (Regenerate) populates a fresh site map, reloads the catalogs, copies
// static assets and then renders every element once per language. Languages
// run one after another; within a language a bounded pool of workers renders
// the elements concurrently. A failing element is recorded in the pass Report
// and never stops its siblings.
package generator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/i18n"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// StaticDir is the output subdirectory static assets are copied to.
const StaticDir = "static"

// Generator runs generation passes for one configuration.
type Generator struct {
	cfg      *config.Config
	recorder metrics.Recorder
	history  eventstore.Store
	markdown *markdown.Renderer
	now      func() time.Time
	newID    func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithHistory records pass events in s.
func WithHistory(s eventstore.Store) Option {
	return func(g *Generator) { g.history = s }
}

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a generator for cfg.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		markdown: markdown.New(markdown.Options{Unsafe: true}),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the configuration the generator was built with.
func (g *Generator) Config() *config.Config { return g.cfg }

// Regenerate runs a full generation pass. Render failures are collected in the
// report; the error is reserved for failures that stop the whole pass. The
// report is returned in both cases.
func (g *Generator) Regenerate(ctx context.Context) (*Report, error) {
	return g.RegenerateWithTrigger(ctx, "")
}

// RegenerateWithTrigger is Regenerate with a label describing why the pass
// runs (for example "change" or "schedule"), recorded in the build history.
func (g *Generator) RegenerateWithTrigger(ctx context.Context, trigger string) (*Report, error) {
	report := &Report{
		BuildID:     g.newID(),
		BuildNumber: g.cfg.Build.Number,
		Trigger:     trigger,
		Start:       g.now(),
		Languages:   g.cfg.Site.Languages,
		Workers:     g.cfg.Workers(),
	}
	log := slog.With(logfields.BuildID(report.BuildID))
	log.Info("Generation started",
		logfields.BuildNumber(report.BuildNumber),
		logfields.Workers(report.Workers),
		slog.Any("languages", report.Languages))

	err := g.run(ctx, report)

	report.End = g.now()
	report.deriveOutcome(err)
	g.recorder.ObserveBuildDuration(report.Duration())
	g.recorder.IncBuildOutcome(string(report.Outcome))
	g.recordCompleted(ctx, report, err)

	if err != nil {
		log.Error("Generation failed", logfields.Error(err), logfields.Duration(report.Duration()))
		return report, err
	}
	log.Info("Generation finished",
		slog.String("outcome", string(report.Outcome)),
		slog.Int("rendered", report.Rendered),
		slog.Int("failed", len(report.Failed)),
		logfields.Duration(report.Duration()))
	return report, nil
}

func (g *Generator) run(ctx context.Context, report *Report) error {
	site, err := g.populate()
	if err != nil {
		return err
	}
	report.Elements = site.Len()
	g.recordStarted(ctx, report)

	store, err := i18n.Load(g.cfg.Site.Languages, g.cfg.CatalogPath)
	if err != nil {
		return err
	}

	if err := g.copyStatic(); err != nil {
		return err
	}

	base, err := g.loadTemplates()
	if err != nil {
		return err
	}

	g.recorder.SetRenderWorkers(report.Workers)
	for _, lang := range g.cfg.Site.Languages {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &pass{
			gen:    g,
			site:   site,
			store:  store,
			base:   base,
			lang:   lang,
			first:  lang == g.cfg.DefaultLanguage(),
			report: report,
		}
		if err := p.render(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) copyStatic() error {
	src := g.cfg.Site.StaticPath
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		slog.Warn("Static directory not found, skipping asset copy", logfields.Path(src))
		return nil
	}
	dst := filepath.Join(g.cfg.Site.OutputPath, StaticDir)
	if err := fsutil.CopyDir(src, dst); err != nil {
		return ferrors.FileSystemError("failed to copy static assets").
			WithCause(err).
			WithContext("path", src).
			Build()
	}
	slog.Debug("Copied static assets", logfields.Path(dst))
	return nil
}

func (g *Generator) today() time.Time {
	now := g.now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

package commands

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/buildinfo"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/generator"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/vcs"
)

// runtime wires a generator to its optional metrics and history sinks.
type runtime struct {
	cfg      *config.Config
	vcs      vcs.Info
	gen      *generator.Generator
	recorder metrics.Recorder
	registry *prom.Registry
	history  *eventstore.SQLiteStore

	lastReport *generator.Report
}

// newRuntime bumps the build counter, reads the version control state and
// builds the generator for one invocation.
func newRuntime(cfg *config.Config) (*runtime, error) {
	number, err := buildinfo.Bump(cfg.BuildInfoPath(), cfg.Site.Version)
	if err != nil {
		return nil, err
	}

	info, err := vcs.Detect(cfg.Root)
	if err != nil {
		slog.Warn("Failed to read version control metadata", logfields.Error(err))
	}
	cfg = cfg.WithBuild(config.BuildInfo{Number: number, Commit: info.ShortCommit(), Branch: info.Branch})

	rt := &runtime{cfg: cfg, vcs: info, recorder: metrics.NoopRecorder{}}
	opts := []generator.Option{}

	if cfg.Generator.MetricsTextfile != "" {
		rt.registry = prom.NewRegistry()
		rt.recorder = metrics.NewPrometheusRecorder(rt.registry)
		opts = append(opts, generator.WithRecorder(rt.recorder))
	}
	if cfg.Generator.HistoryDB != "" {
		store, err := eventstore.NewSQLiteStore(cfg.Generator.HistoryDB)
		if err != nil {
			return nil, err
		}
		rt.history = store
		opts = append(opts, generator.WithHistory(store))
	}

	rt.gen = generator.New(cfg, opts...)
	slog.Debug("Build prepared",
		logfields.BuildNumber(number),
		slog.String("commit", info.ShortCommit()),
		logfields.Workers(cfg.Workers()))
	return rt, nil
}

// rebuild runs one pass and exports metrics. Render failures are logged by
// the generator and summarized here; only pass-level failures are returned.
func (rt *runtime) rebuild(ctx context.Context, trigger string) error {
	report, err := rt.gen.RegenerateWithTrigger(ctx, trigger)
	rt.exportMetrics()
	if err != nil {
		return err
	}
	for _, f := range report.Failed {
		slog.Warn("Element not rendered",
			logfields.Element(f.Element),
			logfields.Kind(f.Kind.String()),
			logfields.Lang(f.Lang),
			logfields.Error(f.Err))
	}
	slog.Info(report.Summary())
	rt.lastReport = report
	return nil
}

func (rt *runtime) exportMetrics() {
	if rt.registry == nil {
		return
	}
	path := rt.cfg.Generator.MetricsTextfile
	if err := metrics.WriteTextfile(path, rt.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

func (rt *runtime) Close() {
	if rt.history == nil {
		return
	}
	if err := rt.history.Close(); err != nil {
		slog.Warn("Failed to close history database", logfields.Error(err))
	}
}

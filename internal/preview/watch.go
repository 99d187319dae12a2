package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Rebuild reasons.
const (
	ReasonInitial = "initial"
	ReasonChange  = "change"
)

const shutdownTimeout = 5 * time.Second

// RebuildFunc runs one full regeneration. Its error is logged; the loop keeps
// watching.
type RebuildFunc func(ctx context.Context, trigger string) error

// Options configures a watch loop.
type Options struct {
	Config   *config.Config
	VCSDir   string
	Rebuild  RebuildFunc
	Recorder metrics.Recorder
	// Ready, when set, is called with the bound server once every activity
	// has started.
	Ready func(*Server)
}

// Run builds once, then serves the output tree and rebuilds on every
// qualifying change until ctx is canceled. Failing to bind the server or
// to start the observer is fatal; rebuild failures are not.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil || opts.Rebuild == nil {
		return ferrors.ValidationError("watch requires a config and a rebuild function").Build()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	server, err := Listen(cfg.Site.OutputPath, cfg.Generator.LiveServerPort)
	if err != nil {
		return err
	}

	observer, err := NewObserver(cfg.Root, NewFilter(cfg, opts.VCSDir), recorder)
	if err != nil {
		_ = server.Shutdown(context.Background())
		return err
	}

	debouncer, err := NewDebouncer(DebouncerConfig{
		QuietWindow: cfg.Generator.DebounceWindow.Std(),
		MaxDelay:    cfg.Generator.DebounceMaxDelay.Std(),
	})
	if err != nil {
		_ = observer.Close()
		_ = server.Shutdown(context.Background())
		return err
	}

	var scheduler *Scheduler
	if interval := cfg.Generator.RebuildInterval.Std(); interval > 0 {
		if scheduler, err = NewScheduler(interval, debouncer.Request); err != nil {
			_ = observer.Close()
			_ = server.Shutdown(context.Background())
			return err
		}
	}

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()

	rebuild := func(trigger string) {
		recorder.IncRebuildTrigger(trigger)
		if err := opts.Rebuild(loopCtx, trigger); err != nil && loopCtx.Err() == nil {
			slog.Error("Rebuild failed", logfields.Cause(trigger), logfields.Error(err))
		}
	}
	rebuild(ReasonInitial)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)
	wg.Add(3)
	go func() {
		defer wg.Done()
		serveErr <- server.Serve()
	}()
	go func() {
		defer wg.Done()
		debouncer.Run(loopCtx)
	}()
	go func() {
		defer wg.Done()
		observer.Run(loopCtx, func(string) { debouncer.Request(ReasonChange) })
	}()

	// Rebuilds run one at a time on this goroutine.
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		for {
			select {
			case <-loopCtx.Done():
				return
			case t := <-debouncer.C():
				slog.Info("Change detected; rebuilding site",
					logfields.Cause(t.Reason),
					logfields.Count(t.Requests),
					slog.String("debounce", t.Cause))
				rebuild(t.Reason)
			}
		}
	}()

	if scheduler != nil {
		scheduler.Start()
	}
	if opts.Ready != nil {
		opts.Ready(server)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}

	slog.Info("Shutting down watch loop")
	stop()
	if scheduler != nil {
		scheduler.Stop()
	}
	if err := observer.Close(); err != nil {
		slog.Warn("Watcher close failed", logfields.Error(err))
	}
	<-workerDone

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Dev server shutdown error", logfields.Error(err))
	}
	wg.Wait()
	return runErr
}

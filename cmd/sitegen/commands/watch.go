package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/preview"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Port *int `name:"port" help:"Dev server port (overrides live_server_port)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if w.Port != nil {
		cfg = cfg.WithOverrides(config.Overrides{LiveServerPort: w.Port})
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return preview.Run(ctx, preview.Options{
		Config:   rt.cfg,
		VCSDir:   rt.vcs.MetadataDir,
		Rebuild:  rt.rebuild,
		Recorder: rt.recorder,
	})
}

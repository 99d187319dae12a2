package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Strict bool `help:"Exit with an error when any element fails to render"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.rebuild(ctx, "build"); err != nil {
		return err
	}
	if failed := len(rt.lastReport.Failed); b.Strict && failed > 0 {
		return ferrors.RenderError(fmt.Sprintf("%d element(s) failed to render", failed)).
			WithContext("build_id", rt.lastReport.BuildID).
			Build()
	}
	return nil
}

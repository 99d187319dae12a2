package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/i18n"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/vcs"
)

// GatherCmd implements the 'gather' command.
type GatherCmd struct{}

func (g *GatherCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	skip := []string{cfg.Site.OutputPath}
	if info, err := vcs.Detect(cfg.Root); err == nil && info.Found() {
		skip = append(skip, info.MetadataDir)
	}

	table, err := i18n.Gather(ctx, cfg.Root, skip)
	if err != nil {
		return err
	}
	slog.Info("Gathered string tables", logfields.Count(table.Len()))

	added, err := i18n.UpsertAll(cfg.Site.Languages, cfg.CatalogPath, cfg.Site.Name, table)
	for _, lang := range cfg.Site.Languages {
		n, ok := added[lang]
		if !ok {
			continue
		}
		slog.Info("Catalog updated",
			logfields.Lang(lang),
			logfields.Path(cfg.CatalogPath(lang)),
			slog.Int("added", n))
	}
	return err
}

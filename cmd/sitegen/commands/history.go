package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" default:"10" help:"Number of builds to show"`
	JSON  bool `name:"json" help:"Print summaries as JSON"`
	Prune *int `name:"prune" help:"Delete all but the newest N builds before listing"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Generator.HistoryDB == "" {
		return ferrors.ConfigError("history_db is not configured").
			WithContext("path", cfg.Root).
			Hint(`set "history_db" in config.json and run a build`).
			Build()
	}
	if _, err := os.Stat(cfg.Generator.HistoryDB); err != nil {
		return ferrors.NotFoundError("history database not found").
			WithCause(err).
			WithContext("path", cfg.Generator.HistoryDB).
			Build()
	}

	store, err := eventstore.NewSQLiteStore(cfg.Generator.HistoryDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if h.Prune != nil {
		deleted, err := store.Prune(ctx, *h.Prune)
		if err != nil {
			return err
		}
		slog.Info("Pruned build history", logfields.Count(int(deleted)), logfields.Path(cfg.Generator.HistoryDB))
	}

	summaries, err := eventstore.Recent(ctx, store, h.Limit)
	if err != nil {
		return err
	}
	if h.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	return printHistory(os.Stdout, summaries)
}

func printHistory(w io.Writer, summaries []*eventstore.BuildSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No builds recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tTRIGGER\tSTATUS\tRENDERED\tFAILED\tDURATION")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			s.BuildNumber,
			s.StartedAt.Local().Format(time.DateTime),
			orDash(s.Trigger),
			s.Status,
			s.Rendered,
			s.Failed,
			s.Duration.Truncate(time.Millisecond))
		for _, f := range s.Failures {
			_, _ = fmt.Fprintf(tw, "\t  %s %s [%s]: %s\n", f.Kind, f.Element, f.Lang, firstLine(f.Error))
		}
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

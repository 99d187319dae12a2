package generator

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/sitemap"
)

// History writes never fail a pass; errors are logged and dropped.

func (g *Generator) recordStarted(ctx context.Context, r *Report) {
	if g.history == nil {
		return
	}
	g.append(ctx, r.BuildID, func() (eventstore.Event, error) {
		return eventstore.NewBuildStarted(r.BuildID, eventstore.BuildStartedMeta{
			BuildNumber: r.BuildNumber,
			Languages:   r.Languages,
			Elements:    r.Elements,
			Workers:     r.Workers,
			Trigger:     r.Trigger,
		})
	})
}

func (g *Generator) recordRender(ctx context.Context, buildID string, el sitemap.Element, lang string, d time.Duration, renderErr error) {
	if g.history == nil {
		return
	}
	meta := eventstore.RenderMeta{
		Element:  el.Name,
		Kind:     el.Kind.String(),
		Lang:     lang,
		Duration: d,
	}
	g.append(ctx, buildID, func() (eventstore.Event, error) {
		if renderErr != nil {
			meta.Error = renderErr.Error()
			return eventstore.NewRenderFailed(buildID, meta)
		}
		return eventstore.NewElementRendered(buildID, meta)
	})
}

func (g *Generator) recordCompleted(ctx context.Context, r *Report, passErr error) {
	if g.history == nil {
		return
	}
	meta := eventstore.BuildCompletedMeta{
		Outcome:  string(r.Outcome),
		Rendered: r.Rendered,
		Failed:   len(r.Failed),
		Duration: r.Duration(),
	}
	if passErr != nil {
		meta.Error = passErr.Error()
	}
	// A canceled pass is still closed out in the history.
	g.append(context.WithoutCancel(ctx), r.BuildID, func() (eventstore.Event, error) {
		return eventstore.NewBuildCompleted(r.BuildID, meta)
	})
}

func (g *Generator) append(ctx context.Context, buildID string, build func() (eventstore.Event, error)) {
	event, err := build()
	if err == nil {
		err = g.history.Append(ctx, event)
	}
	if err != nil {
		slog.Warn("Failed to record build history", logfields.BuildID(buildID), logfields.Error(err))
	}
}

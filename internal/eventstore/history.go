package eventstore

import (
	"context"
	"encoding/json"
	"time"
)

const statusRunning = "running"

// BuildSummary is a read model of one generation pass.
type BuildSummary struct {
	BuildID     string        `json:"build_id"`
	BuildNumber int           `json:"build_number"`
	Status      string        `json:"status"` // running, success, partial, failed
	Trigger     string        `json:"trigger,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration,omitempty"`
	Languages   []string      `json:"languages,omitempty"`
	Rendered    int           `json:"rendered"`
	Failed      int           `json:"failed"`
	Failures    []RenderMeta  `json:"failures,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Lister is a Store that can enumerate its builds.
type Lister interface {
	Store
	RecentBuildIDs(ctx context.Context, limit int) ([]string, error)
}

// Recent rebuilds summaries of the last limit builds, newest first.
func Recent(ctx context.Context, s Lister, limit int) ([]*BuildSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	ids, err := s.RecentBuildIDs(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*BuildSummary, 0, len(ids))
	for _, id := range ids {
		events, err := s.Events(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(id, events))
	}
	return out, nil
}

// Summarize folds the events of one build into a summary.
func Summarize(buildID string, events []Event) *BuildSummary {
	summary := &BuildSummary{BuildID: buildID, Status: statusRunning}
	for _, event := range events {
		apply(summary, event)
	}
	return summary
}

func apply(summary *BuildSummary, event Event) {
	switch event.Type {
	case TypeBuildStarted:
		summary.StartedAt = event.At
		summary.Status = statusRunning
		var payload BuildStartedMeta
		if err := json.Unmarshal(event.Payload, &payload); err == nil {
			summary.BuildNumber = payload.BuildNumber
			summary.Languages = payload.Languages
			summary.Trigger = payload.Trigger
		}

	case TypeElementRendered:
		summary.Rendered++

	case TypeRenderFailed:
		summary.Failed++
		var payload RenderMeta
		if err := json.Unmarshal(event.Payload, &payload); err == nil {
			summary.Failures = append(summary.Failures, payload)
		}

	case TypeBuildCompleted:
		var payload struct {
			BuildCompletedMeta
			DurationMS int64 `json:"duration_ms"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err == nil {
			summary.Status = payload.Outcome
			summary.Duration = time.Duration(payload.DurationMS) * time.Millisecond
			summary.Error = payload.Error
		}
		if summary.Duration == 0 && !summary.StartedAt.IsZero() {
			summary.Duration = event.At.Sub(summary.StartedAt)
		}
	}
}

package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Event types written by the generator.
const (
	TypeBuildStarted    = "BuildStarted"
	TypeElementRendered = "ElementRendered"
	TypeRenderFailed    = "RenderFailed"
	TypeBuildCompleted  = "BuildCompleted"
)

// BuildStartedMeta describes the pass that is starting.
type BuildStartedMeta struct {
	BuildNumber int      `json:"build_number"`
	Languages   []string `json:"languages"`
	Elements    int      `json:"elements"`
	Workers     int      `json:"workers"`
	Trigger     string   `json:"trigger,omitempty"`
}

// RenderMeta identifies one render task.
type RenderMeta struct {
	Element  string        `json:"element"`
	Kind     string        `json:"kind"`
	Lang     string        `json:"lang"`
	Duration time.Duration `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// BuildCompletedMeta summarizes a finished pass.
type BuildCompletedMeta struct {
	Outcome  string        `json:"outcome"`
	Rendered int           `json:"rendered"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"-"`
	Error    string        `json:"error,omitempty"`
}

func newEvent(buildID, eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.HistoryError("failed to marshal " + eventType + " payload").
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return Event{BuildID: buildID, Type: eventType, At: time.Now(), Payload: data}, nil
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, meta BuildStartedMeta) (Event, error) {
	return newEvent(buildID, TypeBuildStarted, meta)
}

// NewElementRendered creates an ElementRendered event.
func NewElementRendered(buildID string, meta RenderMeta) (Event, error) {
	return newEvent(buildID, TypeElementRendered, renderPayload(meta))
}

// NewRenderFailed creates a RenderFailed event.
func NewRenderFailed(buildID string, meta RenderMeta) (Event, error) {
	return newEvent(buildID, TypeRenderFailed, renderPayload(meta))
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, meta BuildCompletedMeta) (Event, error) {
	return newEvent(buildID, TypeBuildCompleted, struct {
		BuildCompletedMeta
		DurationMS int64 `json:"duration_ms"`
	}{meta, meta.Duration.Milliseconds()})
}

func renderPayload(meta RenderMeta) any {
	return struct {
		RenderMeta
		DurationMS int64 `json:"duration_ms"`
	}{meta, meta.Duration.Milliseconds()}
}

package metrics

import "time"

// ResultLabel enumerates render task results.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for generation passes and the watch loop.
type Recorder interface {
	ObserveRenderDuration(kind, lang string, d time.Duration)
	IncRenderResult(kind, lang string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|partial|failed
	SetRenderWorkers(n int)
	IncWatchEvent(accepted bool)
	IncRebuildTrigger(reason string) // reason: change|schedule
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, string, time.Duration) {}
func (NoopRecorder) IncRenderResult(string, string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)                  {}
func (NoopRecorder) IncBuildOutcome(string)                              {}
func (NoopRecorder) SetRenderWorkers(int)                                {}
func (NoopRecorder) IncWatchEvent(bool)                                  {}
func (NoopRecorder) IncRebuildTrigger(string)                            {}

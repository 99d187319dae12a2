package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRenderDuration("page", "en", time.Millisecond)
	r.IncBuildOutcome("success")
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveRenderDuration("page", "en", 15*time.Millisecond)
	pr.IncRenderResult("page", "en", ResultSuccess)
	pr.IncRenderResult("post", "de", ResultFailed)
	pr.IncRenderResult("post", "de", ResultFailed)
	pr.ObserveBuildDuration(200 * time.Millisecond)
	pr.IncBuildOutcome("partial")
	pr.SetRenderWorkers(4)
	pr.IncWatchEvent(true)
	pr.IncRebuildTrigger("change")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.InDelta(t, 3, values["sitegen_render_results_total"], 0)
	assert.InDelta(t, 4, values["sitegen_render_workers"], 0)
	assert.InDelta(t, 1, values["sitegen_rebuild_triggers_total"], 0)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome("success")

	path := filepath.Join(t.TempDir(), "metrics", "sitegen.prom")
	require.NoError(t, WriteTextfile(path, pr.Registry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitegen_build_outcomes_total{outcome="success"} 1`)
}

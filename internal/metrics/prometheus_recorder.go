package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	renderDuration  *prom.HistogramVec
	renderResults   *prom.CounterVec
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	renderWorkers   prom.Gauge
	watchEvents     *prom.CounterVec
	rebuildTriggers *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of individual element renders",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"kind", "lang"}),
		renderResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_results_total",
			Help:      "Element render results by kind, language and outcome",
		}, []string{"kind", "lang", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total generation pass duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Generation passes by final status",
		}, []string{"outcome"}),
		renderWorkers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "render_workers",
			Help:      "Size of the per-language render pool",
		}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Filesystem events seen by the watch loop",
		}, []string{"accepted"}),
		rebuildTriggers: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_triggers_total",
			Help:      "Rebuilds started by the watch loop, by reason",
		}, []string{"reason"}),
	}
	reg.MustRegister(pr.renderDuration, pr.renderResults, pr.buildDuration, pr.buildOutcome,
		pr.renderWorkers, pr.watchEvents, pr.rebuildTriggers)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveRenderDuration(kind, lang string, d time.Duration) {
	p.renderDuration.WithLabelValues(kind, lang).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderResult(kind, lang string, result ResultLabel) {
	p.renderResults.WithLabelValues(kind, lang, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetRenderWorkers(n int) {
	p.renderWorkers.Set(float64(n))
}

func (p *PrometheusRecorder) IncWatchEvent(accepted bool) {
	label := "false"
	if accepted {
		label = "true"
	}
	p.watchEvents.WithLabelValues(label).Inc()
}

func (p *PrometheusRecorder) IncRebuildTrigger(reason string) {
	p.rebuildTriggers.WithLabelValues(reason).Inc()
}

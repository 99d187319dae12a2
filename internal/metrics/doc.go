// Package metrics records generation metrics.
//
// Components depend on the Recorder interface and default to NoopRecorder, so
// nothing needs a nil check. When a metrics textfile is configured the CLI
// injects a PrometheusRecorder and writes its registry after every pass in the
// text exposition format read by node_exporter's textfile collector.
package metrics

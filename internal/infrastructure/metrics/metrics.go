// Package metrics provides a small instrumentation interface with a no-op
// default and a Prometheus-backed implementation used by the server.
package metrics

import (
	"time"
)

// Recorder defines the metrics surface used by builds and the server.
type Recorder interface {
	IncBuildTotal(success bool)
	ObserveBuildSeconds(success bool, seconds float64)
	SetGraphSize(nodes, edges int)
	IncRequestTotal(route string, status int)
}

// Noop implements Recorder with no-ops.
type Noop struct{}

func (Noop) IncBuildTotal(bool)                {}
func (Noop) ObserveBuildSeconds(bool, float64) {}
func (Noop) SetGraphSize(int, int)             {}
func (Noop) IncRequestTotal(string, int)       {}

// TimeBuild is a helper to time one build.
func TimeBuild(rec Recorder) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		rec.IncBuildTotal(success)
		rec.ObserveBuildSeconds(success, dur)
	}
}

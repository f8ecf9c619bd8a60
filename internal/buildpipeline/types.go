// Package buildpipeline holds the progress vocabulary shared by the driver
// and the terminal UI: pipeline stages, statuses, events and sinks.
package buildpipeline

import "time"

// Stage describes a step of the per-crate pipeline.
type Stage string

const (
	// StageParse covers the root file and every `mod` file of the crate.
	StageParse Stage = "parse"
	// StageExpand is the untyped-AST macro phase.
	StageExpand Stage = "expand"
	// StageCollect builds the def map.
	StageCollect Stage = "collect"
	// StagePrelude is the crate-prelude macro phase.
	StagePrelude Stage = "prelude"
	// StageResolve binds imports and paths.
	StageResolve Stage = "resolve"
	// StageTyped is the typed-AST macro phase.
	StageTyped Stage = "typed"
)

// Stages lists the stages in pipeline order.
var Stages = []Stage{StageParse, StageExpand, StageCollect, StagePrelude, StageResolve, StageTyped}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Terminal reports whether no further events follow for the crate.
func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusCached, StatusSkipped, StatusError:
		return true
	}
	return false
}

// Event reports progress for a crate. Stage is empty for terminal events.
type Event struct {
	Crate   string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: crates of one wave report from different goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations summed over crates.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Add accumulates a duration for the given stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}

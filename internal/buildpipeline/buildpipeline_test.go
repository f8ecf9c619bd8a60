package buildpipeline

import (
	"testing"
	"time"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	tm.Add(StageParse, time.Millisecond)
	tm.Add(StageParse, 2*time.Millisecond)
	tm.Add(StageResolve, time.Millisecond)
	if got := tm.Duration(StageParse); got != 3*time.Millisecond {
		t.Fatalf("parse = %v", got)
	}
	if got := tm.Sum(Stages...); got != 4*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
	if tm.Has(StageTyped) {
		t.Fatalf("typed was never recorded")
	}
}

func TestRecorderAndHelpers(t *testing.T) {
	var r Recorder
	EmitQueued(&r, []string{"std", "app"})
	Emit(nil, Event{Crate: "ignored"})
	Emit(&r, Event{Crate: "std", Status: StatusDone})
	evs := r.Events()
	if len(evs) != 3 || evs[0].Status != StatusQueued || !evs[2].Status.Terminal() {
		t.Fatalf("unexpected events %+v", evs)
	}
	if StatusWorking.Terminal() || StatusQueued.Terminal() {
		t.Fatalf("working and queued are not terminal")
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Crate: "x"})
	if ev := <-ch; ev.Crate != "x" {
		t.Fatalf("unexpected event %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{Crate: "dropped"})
}

package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestRingTracerWrapsInOrder(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, want := range []string{"b", "c", "d"} {
		if snap[i].Name != want {
			t.Fatalf("event %d: got %q, want %q", i, snap[i].Name, want)
		}
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeCrate, false},
		{LevelDetail, ScopeCrate, true},
		{LevelDetail, ScopeProcessor, false},
		{LevelDebug, ScopeProcessor, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%s/%s: got %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestSpanBeginEndStream(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), st)

	sp := Begin(FromContext(ctx), ScopePass, "parse", 0)
	sp.WithExtra("crate", "std").End("ok")
	Begin(st, ScopeCrate, "hidden", sp.ID()).End("")

	out := buf.String()
	if !strings.Contains(out, "→ parse") || !strings.Contains(out, "← parse (ok) {crate=std}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("crate scope must be filtered at phase level:\n%s", out)
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(st, ScopeProcessor, "assert_message", 7, "untyped")
	line := buf.String()
	if !strings.HasPrefix(line, "{") || !strings.Contains(line, `"name":"assert_message"`) || !strings.Contains(line, `"parent_id":7`) {
		t.Fatalf("unexpected ndjson %q", line)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
}

func TestStartNestsSpans(t *testing.T) {
	r := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), r)

	ws, ctx := Start(ctx, ScopeDriver, "check_workspace")
	crate, ctx := Start(ctx, ScopeCrate, "crate")
	if CurrentSpan(ctx).SpanID != crate.ID() {
		t.Fatalf("crate span must become the parent")
	}
	crate.End("")
	ws.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	if snap[1].Name != "crate" || snap[1].ParentID != ws.ID() {
		t.Fatalf("crate must be a child of the workspace span: %+v", snap[1])
	}
}

func TestStartKeepsParentWhenFiltered(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), r)

	wave, ctx := Start(ctx, ScopeDriver, "wave")
	crate, crateCtx := Start(ctx, ScopeCrate, "crate")
	if crate.ID() != 0 {
		t.Fatalf("crate scope is filtered at phase level")
	}
	if CurrentSpan(crateCtx).SpanID != wave.ID() {
		t.Fatalf("filtered span must leave the wave as parent")
	}
	phase, _ := Start(crateCtx, ScopePass, "macros.untyped")
	phase.End("")
	snap := r.Snapshot()
	if last := snap[len(snap)-1]; last.Name != "macros.untyped" || last.ParentID != wave.ID() {
		t.Fatalf("phase must hang off the wave: %+v", last)
	}
}

func TestHeartbeatEmitsUntilStopped(t *testing.T) {
	if hb := StartHeartbeat(Nop, time.Millisecond); hb != nil {
		t.Fatalf("heartbeat must not start for a disabled tracer")
	}
	r := NewRingTracer(64, LevelError)
	hb := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	snap := r.Snapshot()
	if len(snap) == 0 {
		t.Fatalf("expected at least one heartbeat")
	}
	ev := snap[0]
	if ev.Kind != KindHeartbeat || ev.Detail != "#1" || ev.Extra["goroutines"] == "" || ev.Extra["uptime"] == "" {
		t.Fatalf("unexpected heartbeat %+v", ev)
	}
	n := len(snap)
	time.Sleep(5 * time.Millisecond)
	if len(r.Snapshot()) != n {
		t.Fatalf("heartbeat kept emitting after Stop")
	}
}

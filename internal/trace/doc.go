// Package trace records what the macrofront pipeline is doing.
//
// Spans mark workspace runs, per-crate pipelines and the individual passes
// (parse, macro phases, resolution). Events go to a StreamTracer (text or
// NDJSON), to a RingTracer kept in memory for crash dumps, or both.
//
// # Usage
//
//	macrofront check --trace=- --trace-level=phase ./workspace
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Crate-level events
//   - LevelDebug: Everything, including per-processor points
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace

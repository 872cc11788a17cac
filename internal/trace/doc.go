// Package trace records what the supervisor is doing while pyright runs.
//
// Tracing is off by default and meant for diagnosing hangs and lost output:
// a stuck child, a reader that never reaches EOF, a signal that did not
// cascade.
//
// # Usage
//
// Enable tracing in pyproject.toml:
//
//	[tool.pyright-polite.trace]
//	level = "detail"
//	output = "polite.trace.ndjson"
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - nopTracer: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer dumped after a crash
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: lifecycle transitions (starting, running, teardown)
//   - LevelDetail: stream readers, signals and reports
//   - LevelDebug: every line read from the child
//
// # Scopes
//
//   - ScopeRun: one supervised pyright invocation
//   - ScopePhase: lifecycle phases
//   - ScopeStream: per-stream reader activity
//   - ScopeLine: individual lines
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "running", parentID)
//	defer span.End("")
package trace

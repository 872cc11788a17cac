// Package driver supervises one pyright subprocess.
//
// A Runner launches pyright, reads its stderr and stdout concurrently,
// filters noise, reassembles and re-renders the JSON report, forwards
// termination signals, and always tears the child down before returning the
// exit code the supervisor should use.
//
// Lifecycle: starting → running → {completing, signalled, bad JSON, streams
// closed early} → teardown → done. Each transition is traced at
// trace.ScopePhase.
package driver

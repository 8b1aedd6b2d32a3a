// Package scheduler runs reconciliation cycles on an interval and on demand.
//
// The Service runs one cycle at start, then one every interval (at least a minute).
// Ticker runs and manual triggers share a single in-flight cycle, so cycles never overlap.
// When the run context ends, pending state is flushed with a fresh context.
//
// # Routes
//
//	GET  /sync/status   scheduler state and last cycle result
//	POST /sync/run      run a cycle now (or join the running one)
package scheduler

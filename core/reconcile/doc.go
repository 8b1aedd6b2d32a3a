// Package reconcile keeps an access-control device roster in line with the
// membership directory.
//
// One cycle fetches the full member snapshot, compares every member against the
// fingerprint recorded after its last successful push and against the roster
// currently on the device(s), and pushes only what changed or drifted.
//
// # Change detection
//
// Fingerprint digests the fields that shape the device record (key, name,
// effective enable flag, begin and end time). A member is skipped only when the
// stored fingerprint matches AND the device already has it.
//
// # Drift detection
//
// The device roster is the intersection of every reader's roster (IntersectRosters).
// If it cannot be read the engine fails open: every member counts as absent and
// is pushed again.
//
// # Partial failure
//
// A failed push is counted and reported, and the member's fingerprint is left
// stale so the next cycle retries it. State is flushed once at the end of the cycle.
//
// # Usage
//
//	engine := reconcile.NewEngine(source, sink, store, logger, reconcile.DefaultOptions())
//	result, err := engine.RunCycle(ctx)
package reconcile

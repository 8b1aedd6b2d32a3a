package reconcile

import "fmt"

// SourceFetchError is returned when the member snapshot could not be fetched.
// It is fatal to the cycle.
type SourceFetchError struct {
	Err error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch members: %v", e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// RosterFetchError is returned by a DeviceSink when a device roster could not be read.
// The engine degrades drift detection instead of failing.
type RosterFetchError struct {
	Device string
	Err    error
}

func (e *RosterFetchError) Error() string {
	return fmt.Sprintf("list identities on %s: %v", e.Device, e.Err)
}

func (e *RosterFetchError) Unwrap() error { return e.Err }

// UpsertError is returned when a record could not be pushed to a device.
type UpsertError struct {
	Key    string
	Device string
	Err    error
}

func (e *UpsertError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("upsert %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("upsert %s on %s: %v", e.Key, e.Device, e.Err)
}

func (e *UpsertError) Unwrap() error { return e.Err }

// StateError wraps a failure of the state store.
type StateError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

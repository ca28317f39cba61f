// Package state defines the persisted keeper record and its canonical
// byte form.
package state

// State is the single persisted record. The keeper owns the only mutable
// copy; everything else sees snapshots.
type State struct {
	// RemainingMS is the time still owed on the current block window.
	// Never negative.
	RemainingMS int64

	// LastMonoTicks is the monotonic reading at the last persist.
	LastMonoTicks int64

	// LastWallTicks is the wall reading at the last persist, in 100 ns
	// ticks of the Unix epoch.
	LastWallTicks int64

	// MonoFrequency is the monotonic tick rate at the last persist.
	MonoFrequency int64

	// Tampered is sticky: once set it never clears within this state
	// file's lifetime.
	Tampered bool

	// HeartbeatCount is incremented before every persist attempt after
	// the first, whether or not the write succeeds. Non-decreasing across
	// the lifetime of the state file.
	HeartbeatCount uint64
}

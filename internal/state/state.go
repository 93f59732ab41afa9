// Package state holds the process-wide, sequentially-consistent atomics
// shared between the main event-loop thread and the short-lived walker and
// dispatch workers. There is exactly one instance per process; it is created once
// and torn down implicitly at exit, mirroring the design note's "opaque
// module owning sequentially-consistent atomics" guidance.
package state

import (
	"sync/atomic"
)

// Geometry is the caption geometry the snap controller probes once per
// snap and shares with the overlay collaborator.
type Geometry struct {
	CaptionHeight     int
	CaptionButtonsLeft int
}

// Shared is the process-wide atomic bag. Create it with New: the zero value
// leaves the pointer fields nil and is not ready to use.
type Shared struct {
	targetHWND   atomic.Uint64 // opaque window handle; 0 = unsnapped
	snapped      atomic.Bool
	dumpGuard    atomic.Bool // true while a walker worker is in flight
	dbPath       atomic.Pointer[string]
	geometry     atomic.Pointer[Geometry]
	appName      atomic.Pointer[string]
}

// New returns a ready-to-use Shared instance.
func New() *Shared {
	s := &Shared{}
	empty := ""
	s.dbPath.Store(&empty)
	s.appName.Store(&empty)
	s.geometry.Store(&Geometry{})
	return s
}

// Target returns the current target window handle, or 0 if unsnapped.
func (s *Shared) Target() uint64 { return s.targetHWND.Load() }

// SetTarget records the target handle.
func (s *Shared) SetTarget(hwnd uint64) { s.targetHWND.Store(hwnd) }

// Snapped reports whether the controller currently considers itself snapped.
func (s *Shared) Snapped() bool { return s.snapped.Load() }

// SetSnapped raises or lowers the snap flag.
func (s *Shared) SetSnapped(v bool) { s.snapped.Store(v) }

// TryClaimDump attempts to claim the dump-guard via compare-and-swap.
// Returns true if this caller now owns the guard.
func (s *Shared) TryClaimDump() bool {
	return s.dumpGuard.CompareAndSwap(false, true)
}

// ReleaseDump releases the dump-guard.
func (s *Shared) ReleaseDump() { s.dumpGuard.Store(false) }

// DumpInProgress reports whether a walker worker currently holds the guard.
func (s *Shared) DumpInProgress() bool { return s.dumpGuard.Load() }

// DBPath returns the current per-app store path, or "" if unsnapped.
func (s *Shared) DBPath() string { return *s.dbPath.Load() }

// SetDBPath records the current per-app store path.
func (s *Shared) SetDBPath(path string) { s.dbPath.Store(&path) }

// AppName returns the sanitized app name derived at snap time.
func (s *Shared) AppName() string { return *s.appName.Load() }

// SetAppName records the sanitized app name.
func (s *Shared) SetAppName(name string) { s.appName.Store(&name) }

// Geometry returns a copy of the cached caption geometry.
func (s *Shared) Geometry() Geometry {
	return *s.geometry.Load()
}

// SetGeometry updates the cached caption geometry.
func (s *Shared) SetGeometry(g Geometry) {
	s.geometry.Store(&g)
}

// Reset clears all state back to the unsnapped zero value. Called on unsnap
// and on target-gone auto-unsnap.
func (s *Shared) Reset() {
	s.targetHWND.Store(0)
	s.snapped.Store(false)
	empty := ""
	s.dbPath.Store(&empty)
	s.appName.Store(&empty)
	s.geometry.Store(&Geometry{})
	// dumpGuard is intentionally left alone: a worker may still be
	// in flight and must release its own claim on completion.
}

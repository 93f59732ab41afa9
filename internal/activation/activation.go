// Package activation implements the one-shot protocol that coerces
// lazy-tree engines (browser and embedded-web shells) into publishing their
// full accessibility tree. Such engines gate tree
// construction on three independent signals: the global screen-reader
// system setting, the presence of at least one registered accessibility
// event listener, and a per-render-host content query. Run fires all three.
package activation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/platform"
)

// Activator fires the activation protocol once per snap and owns the
// process-lifetime focus listener registration.
type Activator struct {
	Conn     platform.Connector
	Settings app.Settings
	Logger   *slog.Logger
	Sleep    func(time.Duration)

	mu             sync.Mutex
	removeListener func()
}

// New returns an Activator with defaults filled in.
func New(conn platform.Connector, settings app.Settings) *Activator {
	return &Activator{
		Conn:     conn,
		Settings: settings,
		Logger:   slog.Default(),
		Sleep:    time.Sleep,
	}
}

// Run fires the activation protocol for hwnd. Every step is best-effort: an
// engine that ignores one signal may honor another, and the next dump cycle
// simply re-reads whatever tree exists by then. Run sleeps ~800 ms total
// and must not be
// called on the main event loop.
//
// The focus listener is registered at most once per process and stays
// registered across re-snaps — its continued registration is what keeps the
// clients-are-listening signal true — making Run idempotent.
func (a *Activator) Run(hwnd uintptr) {
	if err := a.Conn.SetScreenReaderFlag(true); err != nil {
		a.Logger.Warn("screen-reader flag write failed", "error", err)
	}
	if err := a.Conn.NotifySettingChange(hwnd); err != nil {
		a.Logger.Warn("setting-change notify failed", "hwnd", hwnd, "error", err)
	}

	a.mu.Lock()
	if a.removeListener == nil {
		remove, err := a.Conn.RegisterFocusListener()
		if err != nil {
			a.Logger.Warn("focus listener registration failed", "error", err)
		} else {
			a.removeListener = remove
		}
	}
	a.mu.Unlock()

	s := a.Settings.Effective()
	a.Sleep(time.Duration(s.ActivationFirstWaitMS) * time.Millisecond)
	if err := a.Conn.ProbeDescendants(hwnd); err != nil {
		a.Logger.Warn("descendant probe failed", "hwnd", hwnd, "error", err)
	}
	a.Sleep(time.Duration(s.ActivationSecondWaitMS) * time.Millisecond)
	if err := a.Conn.ProbeDescendants(hwnd); err != nil {
		a.Logger.Warn("descendant probe failed", "hwnd", hwnd, "error", err)
	}
}

// Shutdown unregisters the focus listener on a detached goroutine: the
// removal call can block for several seconds on a degraded target and must
// never run on the caller's thread. Called at
// process exit only — during steady-state snapped operation the handler
// stays registered.
func (a *Activator) Shutdown() {
	a.mu.Lock()
	remove := a.removeListener
	a.removeListener = nil
	a.mu.Unlock()
	if remove == nil {
		return
	}
	go remove()
}

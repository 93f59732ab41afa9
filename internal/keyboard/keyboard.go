// Package keyboard owns the system-wide low-level hook lifecycle. The hook
// is an identity pass-through: it never swallows or
// rewrites a keystroke. It exists as the insertion point for future
// middleware, and its installation doubles as an activation nudge for
// lazy-tree hosts.
package keyboard

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/state"
)

// Intercept wraps the platform hook with its gating conditions: active
// only when snapped, activation modifiers not held, target in
// the foreground, and the event not synthetic.
type Intercept struct {
	Conn   platform.Connector
	Shared *state.Shared
	Logger *slog.Logger

	remove   func()
	ctrlHeld atomic.Bool
	altHeld  atomic.Bool
}

// New returns an Intercept ready to Install.
func New(conn platform.Connector, shared *state.Shared) *Intercept {
	return &Intercept{Conn: conn, Shared: shared, Logger: slog.Default()}
}

// Install installs the hook. Installation failure at startup is fatal —
// the caller aborts the process.
func (i *Intercept) Install() error {
	remove, err := i.Conn.InstallKeyboardHook(i.onEvent)
	if err != nil {
		return fmt.Errorf("install keyboard hook: %w", err)
	}
	i.remove = remove
	return nil
}

// Remove uninstalls the hook; called on process exit.
func (i *Intercept) Remove() {
	if i.remove != nil {
		i.remove()
		i.remove = nil
	}
}

// Left/right/generic ctrl and alt virtual-key codes (winuser.h); holding
// either suspends the intercept.
func isCtrl(vk uint32) bool { return vk == 0x11 || vk == 0xA2 || vk == 0xA3 }
func isAlt(vk uint32) bool  { return vk == 0x12 || vk == 0xA4 || vk == 0xA5 }

// onEvent is the per-keystroke callback. The dead-key-preserving Unicode
// translation runs only when every gate passes; its result is discarded —
// the transform is identity.
func (i *Intercept) onEvent(ev platform.KeyEvent) {
	switch {
	case isCtrl(ev.VKCode):
		i.ctrlHeld.Store(ev.Down)
		return
	case isAlt(ev.VKCode):
		i.altHeld.Store(ev.Down)
		return
	}

	if ev.Synthetic || !ev.Down {
		return
	}
	if !i.Shared.Snapped() {
		return
	}
	if i.ctrlHeld.Load() || i.altHeld.Load() {
		return
	}
	fg, err := i.Conn.ForegroundWindow()
	if err != nil || uint64(fg.HWND) != i.Shared.Target() {
		return
	}

	if text, ok := platform.TranslateKey(ev.VKCode, ev.ScanCode); ok {
		_ = text
	}
}

// Package dispatch drains the inject action queue at ~33 Hz (decoupled from
// the 2 Hz walker so typing a long string does not pace at dump cadence),
// resolving targets semantically by element name and injecting OS input
// events into the snapped window.
package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/model"
	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/state"
	"github.com/directshell/core/internal/store"
)

// Dispatcher owns one tick's worth of collaborators.
type Dispatcher struct {
	Conn     platform.Connector
	Shared   *state.Shared
	Settings app.Settings
	Logger   *slog.Logger
	Sleep    func(time.Duration)
}

// New returns a Dispatcher with defaults filled in.
func New(conn platform.Connector, shared *state.Shared, settings app.Settings) *Dispatcher {
	return &Dispatcher{
		Conn:     conn,
		Shared:   shared,
		Settings: settings,
		Logger:   slog.Default(),
		Sleep:    time.Sleep,
	}
}

// Tick runs one dispatch cycle. A failed injection
// resets the row to done=0 so the next tick retries it; per-action failures
// are logged, not returned, because one stuck action must not stop the
// drain. Target disappearance returns store.ErrTargetGone after resetting
// the shared state, triggering the controller's auto-unsnap.
func (d *Dispatcher) Tick(ctx context.Context, db *sql.DB) error {
	hwnd := uintptr(d.Shared.Target())
	if hwnd == 0 {
		return nil
	}
	if !d.Conn.IsWindow(hwnd) {
		d.Shared.Reset()
		return store.ErrTargetGone
	}

	d.ensureForeground(hwnd)

	action, ok, err := store.NextPending(ctx, db)
	if err != nil {
		return fmt.Errorf("claim next action: %w", err)
	}
	if !ok {
		return nil
	}

	// Mark done before executing so an execution that outlasts the tick
	// cannot be claimed twice.
	if err := store.SetDone(ctx, db, action.ID, true); err != nil {
		return fmt.Errorf("mark action %d done: %w", action.ID, err)
	}

	if err := d.execute(ctx, hwnd, action); err != nil {
		d.Logger.Warn("action failed, re-queued",
			"id", action.ID, "action", string(action.Kind), "target", action.Target, "error", err)
		if resetErr := store.SetDone(ctx, db, action.ID, false); resetErr != nil {
			d.Logger.Error("reset of failed action lost", "id", action.ID, "error", resetErr)
		}
	}
	return nil
}

// ensureForeground gives the target keyboard focus before injecting. The
// connector's SetForeground taps a modifier first so the OS accepts the
// request; the settle wait lets the handoff land before synthetic input
// follows.
func (d *Dispatcher) ensureForeground(hwnd uintptr) {
	if fg, err := d.Conn.ForegroundWindow(); err == nil && fg.HWND == hwnd {
		return
	}
	if err := d.Conn.SetForeground(hwnd); err != nil {
		d.Logger.Debug("foreground handoff refused", "hwnd", hwnd, "error", err)
		return
	}
	d.Sleep(time.Duration(d.Settings.Effective().ForegroundWaitMS) * time.Millisecond)
}

func (d *Dispatcher) execute(ctx context.Context, hwnd uintptr, a model.Action) error {
	switch a.Kind {
	case model.ActionText:
		return d.injectText(ctx, hwnd, a)
	case model.ActionType:
		return d.typeString(ctx, a.Text)
	case model.ActionKey:
		return d.pressCombo(a.Text)
	case model.ActionClick:
		return d.click(hwnd, a)
	case model.ActionScroll:
		return d.scroll(hwnd, a.Text)
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

// injectText sets a text value semantically: preferred
// path is the value pattern via the connector; a pattern reject or an
// unresolvable target falls back to per-character injection into whatever
// currently has focus.
func (d *Dispatcher) injectText(ctx context.Context, hwnd uintptr, a model.Action) error {
	err := d.Conn.SetValue(hwnd, a.Target, a.Text)
	if err == nil {
		return nil
	}
	if errors.Is(err, platform.ErrPatternUnavailable) {
		return d.typeString(ctx, a.Text)
	}
	return err
}

// typeString injects text character-by-character at the type cadence.
// UTF16CodeUnits has already split supplementary-plane
// runes into surrogate pairs, so each unit maps to exactly one event.
func (d *Dispatcher) typeString(ctx context.Context, text string) error {
	delay := time.Duration(d.Settings.Effective().TypeCharDelayMS) * time.Millisecond
	for _, unit := range platform.UTF16CodeUnits(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Conn.SendUnicodeChar(unit); err != nil {
			return err
		}
		d.Sleep(delay)
	}
	return nil
}

// pressCombo parses a +-delimited combo and synthesizes it: modifiers down
// in order, main key press-and-release with the extended-key flag where the
// key requires it, modifiers up in reverse.
func (d *Dispatcher) pressCombo(comboStr string) error {
	combo, ok := platform.ParseCombo(comboStr)
	if !ok {
		return fmt.Errorf("unparseable key combo %q", comboStr)
	}
	for _, m := range combo.Modifiers {
		if err := d.Conn.SendVirtualKey(platform.ModifierVK(m), false, true); err != nil {
			return err
		}
	}
	if err := d.Conn.SendVirtualKey(combo.Key.VK, combo.Key.Extended, true); err != nil {
		return err
	}
	if err := d.Conn.SendVirtualKey(combo.Key.VK, combo.Key.Extended, false); err != nil {
		return err
	}
	for i := len(combo.Modifiers) - 1; i >= 0; i-- {
		if err := d.Conn.SendVirtualKey(platform.ModifierVK(combo.Modifiers[i]), false, false); err != nil {
			return err
		}
	}
	return nil
}

// click resolves the named element's bounding center and clicks it in
// absolute virtual-desktop coordinates, scaled across the full multi-
// monitor extents.
func (d *Dispatcher) click(hwnd uintptr, a model.Action) error {
	x, y, err := d.Conn.ResolveElementCenter(hwnd, a.Target)
	if err != nil {
		return &store.ResolveMissError{ActionID: a.ID, Target: a.Target}
	}
	vs, err := d.Conn.VirtualScreenExtents()
	if err != nil {
		return err
	}
	dx, dy := platform.ScaleToVirtualDesktop(x, y, vs)
	return d.Conn.SendClick(dx, dy)
}

// scrollDirections maps the direction token to a ±1 tick on the matching
// axis; the connector multiplies by the platform wheel delta.
var scrollDirections = map[string]struct {
	ticks      int
	horizontal bool
}{
	"up":    {1, false},
	"down":  {-1, false},
	"left":  {-1, true},
	"right": {1, true},
}

func (d *Dispatcher) scroll(hwnd uintptr, direction string) error {
	dir, ok := scrollDirections[strings.ToLower(strings.TrimSpace(direction))]
	if !ok {
		return fmt.Errorf("unknown scroll direction %q", direction)
	}
	rect, err := d.Conn.WindowRect(hwnd)
	if err != nil {
		return err
	}
	vs, err := d.Conn.VirtualScreenExtents()
	if err != nil {
		return err
	}
	cx, cy := rect.Center()
	dx, dy := platform.ScaleToVirtualDesktop(cx, cy, vs)
	if err := d.Conn.MoveCursor(dx, dy); err != nil {
		return err
	}
	return d.Conn.SendScroll(dir.ticks, dir.horizontal)
}

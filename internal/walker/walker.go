// Package walker drives one dump cycle: claim the dump-guard, walk the
// target's accessibility tree through the platform connector under a bounded
// connection timeout, persist the result, and release the guard.
package walker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/model"
	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/projection"
	"github.com/directshell/core/internal/state"
	"github.com/directshell/core/internal/store"
)

// Clock returns the current time; tests substitute a fixed clock so dump
// output is deterministic.
type Clock func() time.Time

// Walker owns one dump cycle's worth of collaborators.
type Walker struct {
	Conn     platform.Connector
	Shared   *state.Shared
	Settings app.Settings
	Logger   *slog.Logger
	Now      Clock
}

// New returns a Walker with defaults filled in for a nil logger or clock.
func New(conn platform.Connector, shared *state.Shared, settings app.Settings) *Walker {
	return &Walker{
		Conn:     conn,
		Shared:   shared,
		Settings: settings,
		Logger:   slog.Default(),
		Now:      time.Now,
	}
}

// Dump runs one dump cycle. It is a no-op, not an error, when
// unsnapped. It returns a *store.DumpGuardHeldError when a previous dump is
// still in flight, and store.ErrTargetGone when the snapped window handle no
// longer identifies a live window (triggering an auto-unsnap).
func (w *Walker) Dump(ctx context.Context, db *sql.DB) error {
	if !w.Shared.Snapped() {
		return nil
	}

	if !w.Shared.TryClaimDump() {
		return &store.DumpGuardHeldError{AppName: w.Shared.AppName()}
	}
	defer w.Shared.ReleaseDump()

	hwnd := uintptr(w.Shared.Target())
	if !w.Conn.IsWindow(hwnd) {
		w.Shared.Reset()
		return store.ErrTargetGone
	}

	timeout := time.Duration(w.Settings.Effective().ConnectionTimeoutMS) * time.Millisecond
	walkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	elements, walkErr := w.Conn.WalkTree(walkCtx, hwnd)
	// A dump that exceeds the connection timeout still persists whatever was
	// collected before the deadline.
	if walkErr != nil && len(elements) == 0 {
		return fmt.Errorf("walk tree: %w", walkErr)
	}

	rect, err := w.Conn.WindowRect(hwnd)
	if err != nil {
		return fmt.Errorf("window rect: %w", err)
	}
	title, err := w.Conn.WindowTitle(hwnd)
	if err != nil {
		title = ""
	}

	meta := model.WindowMeta{
		Window:      title,
		HWND:        fmt.Sprintf("%d", hwnd),
		TimestampMS: w.Now().UnixMilli(),
		Rect:        rect,
	}

	if err := store.Persist(ctx, db, elements, meta, w.Settings.Effective().BatchCommitSize); err != nil {
		return fmt.Errorf("persist dump: %w", err)
	}

	if walkErr != nil {
		w.Logger.Warn("dump completed with partial tree after connection timeout",
			"hwnd", hwnd, "elements", len(elements), "error", walkErr)
	}

	if err := w.generateProjections(db); err != nil {
		w.Logger.Warn("projection generation failed", "error", err)
	}
	return nil
}

// generateProjections derives the three per-app text artifacts from what was
// just persisted. A projection failure is logged, not propagated — a stale
// artifact is preferable to treating the whole dump as failed.
func (w *Walker) generateProjections(db *sql.DB) error {
	profileDir, err := app.GetProfileDir()
	if err != nil {
		return fmt.Errorf("resolve profile dir: %w", err)
	}

	focusName := ""
	if name, err := w.Conn.FocusedElementName(); err == nil {
		focusName = name
	}

	return projection.Generate(db, profileDir, w.Shared.AppName(), focusName)
}

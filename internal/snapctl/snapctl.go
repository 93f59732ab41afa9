// Package snapctl owns the snap/unsnap lifecycle: target validation, store
// binding, one-shot activation, caption-geometry probing, and supervision
// of the dump and dispatch tickers.
package snapctl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/directshell/core/internal/activation"
	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/dispatch"
	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/projection"
	"github.com/directshell/core/internal/state"
	"github.com/directshell/core/internal/store"
	"github.com/directshell/core/internal/walker"
)

// Controller transitions between unsnapped and snapped and supervises the
// periodic tickers while snapped.
type Controller struct {
	Conn      platform.Connector
	Shared    *state.Shared
	Settings  app.Settings
	Logger    *slog.Logger
	Activator *activation.Activator

	mu         sync.Mutex
	db         *sql.DB
	walker     *walker.Walker
	dispatcher *dispatch.Dispatcher
}

// New returns a Controller with defaults filled in.
func New(conn platform.Connector, shared *state.Shared, settings app.Settings, activator *activation.Activator) *Controller {
	return &Controller{
		Conn:      conn,
		Shared:    shared,
		Settings:  settings,
		Logger:    slog.Default(),
		Activator: activator,
	}
}

// Snap binds the controller to hwnd. The candidate must be a real, visible,
// non-shell top-level window. Snapping while already snapped is
// unsnap-then-snap; the old app's action queue is not migrated. Activation
// and the caption probe run on a detached goroutine because both sleep or
// call into COM.
func (c *Controller) Snap(ctx context.Context, hwnd uintptr) error {
	if !c.Conn.IsCandidateTarget(hwnd) {
		return store.ErrTargetGone
	}
	if c.Shared.Snapped() {
		c.Unsnap()
	}

	title, err := c.Conn.WindowTitle(hwnd)
	if err != nil {
		return fmt.Errorf("resolve target title: %w", err)
	}
	appName := app.SanitizeAppName(title)

	profileDir, err := app.GetProfileDir()
	if err != nil {
		return err
	}
	dbPath := app.StorePath(profileDir, appName)
	db, err := store.InitDBWithPath(dbPath)
	if err != nil {
		return fmt.Errorf("open per-app store: %w", err)
	}

	c.mu.Lock()
	c.db = db
	c.walker = walker.New(c.Conn, c.Shared, c.Settings)
	c.dispatcher = dispatch.New(c.Conn, c.Shared, c.Settings)
	c.mu.Unlock()

	c.Shared.SetTarget(uint64(hwnd))
	c.Shared.SetAppName(appName)
	c.Shared.SetDBPath(dbPath)
	c.Shared.SetSnapped(true)

	go func() {
		if h, left, probeErr := c.Conn.CaptionGeometry(hwnd); probeErr == nil {
			c.Shared.SetGeometry(state.Geometry{CaptionHeight: h, CaptionButtonsLeft: left})
		} else {
			c.Logger.Debug("caption probe failed", "hwnd", hwnd, "error", probeErr)
		}
		c.Activator.Run(hwnd)
	}()

	if err := projection.WriteActiveStatus(profileDir, appName, true); err != nil {
		c.Logger.Warn("active-status write failed", "error", err)
	}
	c.Logger.Info("snapped", "hwnd", hwnd, "app", appName, "db", dbPath)
	return nil
}

// Unsnap lowers the flags, zeroes the shared target, marks is_active
// "none", and releases the per-app store. The last projections are left in
// place. The activation event handler stays registered — its cleanup is a
// process-exit concern.
func (c *Controller) Unsnap() {
	appName := c.Shared.AppName()
	c.Shared.Reset()

	if profileDir, err := app.GetProfileDir(); err == nil {
		if err := projection.WriteActiveStatus(profileDir, appName, false); err != nil {
			c.Logger.Warn("active-status write failed", "error", err)
		}
	}

	c.mu.Lock()
	db := c.db
	c.db = nil
	c.walker = nil
	c.dispatcher = nil
	c.mu.Unlock()

	if db != nil {
		// A detached walker worker may still hold the dump guard and be
		// mid-batch on this handle; wait it out off-thread before closing.
		go func() {
			for c.Shared.DumpInProgress() {
				time.Sleep(50 * time.Millisecond)
			}
			// Shrink the WAL before parking the file; the store can sit
			// idle across many snap/unsnap cycles.
			_ = store.CheckpointWAL(context.Background(), db, "TRUNCATE")
			_ = store.CloseDB(db)
		}()
	}
	c.Logger.Info("unsnapped", "app", appName)
}

// Run supervises the two periodic tickers until ctx is cancelled. The dump
// ticker spawns a detached walker worker per tick — overlap is the dump
// guard's problem, not the ticker's — while the dispatch ticker drains the
// queue inline; its per-tick work is bounded and the two touch disjoint
// tables. Target disappearance observed by either tick
// auto-unsnaps and keeps the loop alive for a future snap.
func (c *Controller) Run(ctx context.Context) error {
	s := c.Settings.Effective()
	dumpInterval := time.Duration(float64(time.Second) / s.DumpHz)
	dispatchInterval := time.Duration(float64(time.Second) / s.DispatchHz)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t := time.NewTicker(dumpInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				w, db := c.dumpCycle()
				if w == nil {
					continue
				}
				go func() {
					if err := w.Dump(ctx, db); err != nil {
						c.observe(err, "walker")
					}
				}()
			}
		}
	})

	g.Go(func() error {
		t := time.NewTicker(dispatchInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				d, db := c.dispatchCycle()
				if d == nil {
					continue
				}
				if err := d.Tick(ctx, db); err != nil {
					c.observe(err, "dispatch")
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *Controller) dumpCycle() (*walker.Walker, *sql.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.walker, c.db
}

func (c *Controller) dispatchCycle() (*dispatch.Dispatcher, *sql.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatcher, c.db
}

// observe routes a cycle error by kind.
func (c *Controller) observe(err error, component string) {
	var guard *store.DumpGuardHeldError
	switch {
	case errors.As(err, &guard):
		// Previous cycle still running; skip silently.
	case errors.Is(err, store.ErrTargetGone):
		c.Logger.Info("target window gone, unsnapping", "component", component)
		c.Unsnap()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	default:
		c.Logger.Warn("cycle error", "component", component, "error", err)
	}
}

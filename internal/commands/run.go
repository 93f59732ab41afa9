package commands

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/directshell/core/internal/activation"
	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/keyboard"
	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/snapctl"
	"github.com/directshell/core/internal/state"
)

// NewRunCmd creates the engine command: install the keyboard hook, arm the
// screen-reader setting, snap to the requested target, and supervise the
// dump and dispatch tickers until interrupted.
func NewRunCmd() *cobra.Command {
	var (
		hwnd       uint64
		foreground bool
		delay      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the perception/action engine against a target window",
		Long: `Run starts the engine: it walks the target's accessibility tree at ~2 Hz
into the per-app store, derives the text projections after every dump, and
drains the inject action queue at ~33 Hz into synthetic input events.

Pick the target either by handle (--hwnd) or by focusing it and letting
--foreground sample the foreground window after --delay. The engine keeps
running until interrupted; closing the target auto-unsnaps but leaves the
engine alive for a future snap.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.LoadSettings()
			if err != nil {
				return cmdErr(err)
			}

			conn := platform.New()
			shared := state.New()

			// Hook installation failure at startup is fatal (the policy
			// table's one abort case).
			intercept := keyboard.New(conn, shared)
			if err := intercept.Install(); err != nil {
				return cmdErr(err)
			}
			defer intercept.Remove()

			// Written once at startup, before any snap, so apps launched
			// after this process see it immediately.
			if err := conn.SetScreenReaderFlag(true); err != nil {
				slog.Warn("screen-reader flag write failed", "error", err)
			}

			activator := activation.New(conn, settings)
			defer activator.Shutdown()
			ctrl := snapctl.New(conn, shared, settings, activator)

			target := uintptr(hwnd)
			if target == 0 && foreground {
				wait, err := time.ParseDuration(delay)
				if err != nil {
					return cmdErr(err)
				}
				slog.Info("waiting before sampling foreground window", "delay", delay)
				time.Sleep(wait)
				fg, err := conn.ForegroundWindow()
				if err != nil {
					return cmdErr(err)
				}
				target = fg.HWND
			}
			if target == 0 {
				return cmdErr(errors.New("no target: pass --hwnd or --foreground"))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := ctrl.Snap(ctx, target); err != nil {
				return cmdErr(err)
			}
			defer ctrl.Unsnap()

			return cmdErr(ctrl.Run(ctx))
		},
	}

	cmd.Flags().Uint64Var(&hwnd, "hwnd", 0, "Target window handle to snap")
	cmd.Flags().BoolVar(&foreground, "foreground", false, "Snap to the foreground window after --delay")
	cmd.Flags().StringVar(&delay, "delay", "3s", "Wait before sampling the foreground window")

	return cmd
}

package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/cli"
	"github.com/directshell/core/internal/output"
	"github.com/directshell/core/internal/store"
)

// NewStatusCmd shows the active snap and per-store row counts.
func NewStatusCmd() *cobra.Command {
	var human bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active snap, element count, and pending actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			profileDir, source, err := app.ResolveProfileDirDetailed()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				ProfileDir     string `json:"profile_dir"`
				ProfileSource  string `json:"profile_source"`
				Active         bool   `json:"active"`
				App            string `json:"app,omitempty"`
				A11yPath       string `json:"a11y_path,omitempty"`
				SnapPath       string `json:"snap_path,omitempty"`
				Elements       int    `json:"elements,omitempty"`
				PendingActions int    `json:"pending_actions,omitempty"`
			}
			r := resp{ProfileDir: profileDir, ProfileSource: source}

			appName, err := activeApp(profileDir)
			if err != nil {
				return cmdErr(err)
			}
			if appName != "" {
				r.Active = true
				r.App = appName
				paths := app.Artifacts(profileDir, appName)
				r.A11yPath = paths.ScreenReader
				r.SnapPath = paths.Interactive

				if err := withAppDB(appName, func(db *DB) error {
					ctx := context.Background()
					if r.Elements, err = store.CountElements(ctx, db); err != nil {
						return err
					}
					r.PendingActions, err = store.PendingActions(ctx, db)
					return err
				}); err != nil {
					return err
				}
			}

			if human {
				renderHumanStatus(r.Active, r.App, r.ProfileDir, r.Elements, r.PendingActions)
				return nil
			}
			return output.PrintSuccess(r)
		},
	}

	cmd.Flags().BoolVar(&human, "human", false, "Human-readable output instead of JSON")
	return cmd
}

func renderHumanStatus(active bool, appName, profileDir string, elements, pending int) {
	w := os.Stdout
	if !active {
		fmt.Fprintln(w, cli.Colorize(w, cli.Yellow, "unsnapped"))
		fmt.Fprintf(w, "profile: %s\n", profileDir)
		return
	}
	fmt.Fprintf(w, "%s %s\n", cli.Colorize(w, cli.Green, "snapped:"), appName)
	fmt.Fprintf(w, "profile: %s\n", profileDir)
	fmt.Fprintf(w, "elements: %d\n", elements)
	suffix := ""
	if pending > 0 {
		suffix = " " + cli.Colorize(w, cli.Yellow, strings.Repeat("•", min(pending, 10)))
	}
	fmt.Fprintf(w, "pending actions: %d%s\n", pending, suffix)
}

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/directshell/core/internal/model"
	"github.com/directshell/core/internal/output"
	"github.com/directshell/core/internal/store"
)

var actionKinds = map[string]model.ActionKind{
	"text":   model.ActionText,
	"type":   model.ActionType,
	"key":    model.ActionKey,
	"click":  model.ActionClick,
	"scroll": model.ActionScroll,
}

// NewInjectCmd appends an action row to an app's inject queue, playing the
// external-consumer role from the command line.
func NewInjectCmd() *cobra.Command {
	var (
		appName string
		target  string
	)

	cmd := &cobra.Command{
		Use:   "inject <action> [text]",
		Short: "Queue an action (text, type, key, click, scroll) for the dispatcher",
		Long: `Inject appends a row to the active app's action queue. The running engine
drains the queue in id order at ~33 Hz.

Examples:
  directshell inject text "Hello" --target "Document"
  directshell inject key ctrl+a
  directshell inject click --target "Save"
  directshell inject scroll down`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := actionKinds[strings.ToLower(args[0])]
			if !ok {
				return cmdErr(fmt.Errorf("unknown action %q: want text, type, key, click, or scroll", args[0]))
			}
			text := ""
			if len(args) == 2 {
				text = args[1]
			}

			return withAppDB(appName, func(db *DB) error {
				id, err := store.InsertAction(context.Background(), db, kind, text, target)
				if err != nil {
					return err
				}
				type resp struct {
					ID     int64  `json:"id"`
					Action string `json:"action"`
				}
				return output.PrintSuccess(resp{ID: id, Action: string(kind)})
			})
		},
	}

	cmd.Flags().StringVar(&appName, "app", "", "App store to queue into (default: the snapped app from is_active)")
	cmd.Flags().StringVar(&target, "target", "", "Element name for semantic addressing")
	return cmd
}

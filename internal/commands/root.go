package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:           "directshell",
		Short:         "Perception/action engine exposing a desktop app's UI as queryable data",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --profile-dir into the app-level resolver.
			if dir, err := cmd.Flags().GetString("profile-dir"); err == nil && dir != "" {
				app.SetProfileDirOverride(dir)
			}

			return nil
		},
	}

	root.PersistentFlags().String("profile-dir", "", "Override profile directory (default: $DIRECTSHELL_PROFILE_DIR or ~/.config/directshell)")
	root.Flags().BoolP("version", "v", false, "version for directshell")

	root.AddCommand(NewRunCmd())
	root.AddCommand(NewStatusCmd())
	root.AddCommand(NewInjectCmd())
	root.AddCommand(NewDoctorCmd())

	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Default().Error("command failed", "error", err.Error())
		}
	}
	return err
}

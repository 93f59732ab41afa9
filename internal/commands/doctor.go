package commands

import (
	"github.com/spf13/cobra"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/output"
	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/store"
)

// NewDoctorCmd checks profile configuration, platform support, and store
// connectivity for the active app.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, platform support, and store connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			profileDir, source, err := app.ResolveProfileDirDetailed()
			if err != nil {
				return cmdErr(err)
			}

			conn := platform.New()
			platformOK := true
			platformErr := ""
			if _, err := conn.VirtualScreenExtents(); err != nil {
				platformOK = false
				platformErr = err.Error()
			}

			appName, err := activeApp(profileDir)
			if err != nil {
				return cmdErr(err)
			}

			var (
				dbOK      bool
				dbErr     string
				queryOK   bool
				queryErr  string
				schemaErr string
			)
			if appName != "" {
				db, err := store.InitDBWithPath(app.StorePath(profileDir, appName))
				if err != nil {
					dbErr = err.Error()
				} else {
					dbOK = true
					defer func() { _ = store.CloseDB(db) }()

					var one int
					if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
						queryErr = err.Error()
					} else {
						queryOK = true
					}
					if err := store.CheckSchemaVersion(db); err != nil {
						schemaErr = err.Error()
					}
				}
			}

			type resp struct {
				ProfileDir    string `json:"profile_dir"`
				ProfileSource string `json:"profile_source"`
				PlatformOK    bool   `json:"platform_ok"`
				PlatformErr   string `json:"platform_error,omitempty"`
				App           string `json:"app,omitempty"`
				DBOK          bool   `json:"db_ok"`
				DBErr         string `json:"db_error,omitempty"`
				QueryOK       bool   `json:"query_ok"`
				QueryErr      string `json:"query_error,omitempty"`
				SchemaErr     string `json:"schema_error,omitempty"`
				Hint          string `json:"hint,omitempty"`
			}
			hint := ""
			if !platformOK {
				hint = "The walker and dispatcher need a Windows desktop session; store and projection tooling still work here."
			}
			return output.PrintSuccess(resp{
				ProfileDir:    profileDir,
				ProfileSource: source,
				PlatformOK:    platformOK,
				PlatformErr:   platformErr,
				App:           appName,
				DBOK:          dbOK,
				DBErr:         dbErr,
				QueryOK:       queryOK,
				QueryErr:      queryErr,
				SchemaErr:     schemaErr,
				Hint:          hint,
			})
		},
	}
	return cmd
}

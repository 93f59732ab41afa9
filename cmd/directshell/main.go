// Directshell interposes between the desktop OS and a target application,
// exposing the target's live UI as structured, queryable data and driving
// it via a declarative action queue backed by SQLite.
package main

import (
	"os"
	"runtime/debug"

	"github.com/directshell/core/internal/commands"
)

// version is set via ldflags (-X main.version=v1.0.0) or detected
// automatically from Go module info embedded by go install.
var version = "dev"

func main() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}

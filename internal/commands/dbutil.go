package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/store"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	var re interface {
		error
		ErrorCode() string
		Context() map[string]string
	}
	if errors.As(err, &re) {
		attrs = append(attrs, "error_code", re.ErrorCode())
	}
	slog.Error("command error", attrs...)
	return printedError{err: err}
}

// activeApp reads the is_active marker and returns the snapped app name, or
// "" when unsnapped.
func activeApp(profileDir string) (string, error) {
	data, err := os.ReadFile(app.Artifacts(profileDir, "").IsActive)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || lines[0] == "none" || lines[0] == "" {
		return "", nil
	}
	return lines[0], nil
}

// withAppDB opens appName's store (resolving it from is_active when empty)
// and runs fn against it.
func withAppDB(appName string, fn func(db *DB) error) error {
	profileDir, err := app.GetProfileDir()
	if err != nil {
		return cmdErr(err)
	}
	if appName == "" {
		appName, err = activeApp(profileDir)
		if err != nil {
			return cmdErr(err)
		}
		if appName == "" {
			return cmdErr(fmt.Errorf("no snapped app: pass --app or snap one with 'directshell run'"))
		}
	}

	db, err := store.InitDBWithPath(app.StorePath(profileDir, appName))
	if err != nil {
		return cmdErr(err)
	}
	defer func() { _ = store.CloseDB(db) }()

	if err := fn(db); err != nil {
		return cmdErr(err)
	}
	return nil
}

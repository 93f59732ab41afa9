// Package cli holds the small amount of human-facing terminal formatting
// the JSON-first commands offer behind --human.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI codes used by the --human renderers.
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Red    = "\033[31m"
	Dim    = "\033[2m"
)

// Colorize wraps s in code when w is an interactive terminal; otherwise s
// passes through untouched so piped output stays clean.
func Colorize(w io.Writer, code, s string) string {
	f, ok := w.(*os.File)
	if !ok {
		return s
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return s
	}
	return code + s + Reset
}

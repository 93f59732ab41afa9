// Package app resolves the profile directory (the fixed profile
// directory every artifact lives under), loads profile.yaml tunables, and
// derives the sanitized
// per-app store path from a captured window title.
package app

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ConfigDir returns ~/.config/directshell/ on all platforms. This is also
// the default profile directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "directshell"), nil
}

// EnsureConfigDir creates the profile directory and default profile.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "profile.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# directshell profile configuration
# Run: directshell --help

# Optional: override the profile directory holding is_active, *.db, *.snap, *.a11y.
# Can also be set via DIRECTSHELL_PROFILE_DIR or --profile-dir.
# profile_dir: ~/.config/directshell

# Cadence tuning (all optional).
# dump_hz: 2
# dispatch_hz: 33
`

// titleSeparators are the separators a window title is split on, tried in
// the order a title is scanned from the right.
var titleSeparators = []string{" – ", " - "}

// nonAlphanumeric matches every rune that is not a lowercase ASCII letter or
// digit, used by SanitizeAppName to collapse punctuation into underscores.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeAppName derives the per-app store basename from a captured window
// title: take the tail segment after the last
// " – " or " - " separator, lowercase it, replace runs of non-alphanumeric
// characters with a single underscore, and trim leading/trailing
// underscores. An empty or all-punctuation title sanitizes to "app".
func SanitizeAppName(title string) string {
	tail := title
	lastIdx := -1
	for _, sep := range titleSeparators {
		if idx := strings.LastIndex(title, sep); idx > lastIdx {
			lastIdx = idx
			tail = title[idx+len(sep):]
		}
	}

	lowered := strings.ToLower(tail)
	sanitized := nonAlphanumeric.ReplaceAllString(lowered, "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		return "app"
	}
	return sanitized
}

package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// GetProfileDir resolves the profile directory.
// Order of precedence:
// 1) CLI override (--profile-dir)
// 2) Environment variable: DIRECTSHELL_PROFILE_DIR
// 3) profile.yaml: profile_dir
// 4) Default: ~/.config/directshell
// Returns the path as resolved (a relative value is not made absolute) and
// ensures the directory exists.
func GetProfileDir() (string, error) {
	if override := getProfileDirOverride(); override != "" {
		return EnsureDir(override)
	}

	if envPath := os.Getenv("DIRECTSHELL_PROFILE_DIR"); envPath != "" {
		return EnsureDir(envPath)
	}

	cfg, err := LoadSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load profile config: %w", err)
	}
	if cfg.ProfileDir != "" {
		return EnsureDir(cfg.ProfileDir)
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine profile directory: %w", err)
	}
	return EnsureDir(dir)
}

// ResolveProfileDirDetailed returns the resolved profile directory along
// with the source of that decision. For debugging/reporting; normal code
// should use GetProfileDir.
func ResolveProfileDirDetailed() (path string, source string, err error) {
	if override := getProfileDirOverride(); override != "" {
		resolved, ensureErr := EnsureDir(override)
		return resolved, "cli(--profile-dir)", ensureErr
	}

	if envPath := os.Getenv("DIRECTSHELL_PROFILE_DIR"); envPath != "" {
		resolved, ensureErr := EnsureDir(envPath)
		return resolved, "env(DIRECTSHELL_PROFILE_DIR)", ensureErr
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine profile directory: %w", err)
	}

	// Config file order must match LoadSettings.
	configPaths := []string{
		filepath.Join(dir, "profile.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "directshell", "profile.yaml"),
		"profile.yaml",
	}

	for _, p := range configPaths {
		s, loadErr := loadSettingsFile(p)
		if loadErr == nil {
			if s.ProfileDir != "" {
				resolved, ensureErr := EnsureDir(s.ProfileDir)
				return resolved, fmt.Sprintf("config(%s)", p), ensureErr
			}
			continue
		}
		if errors.Is(loadErr, os.ErrNotExist) {
			continue
		}
		return "", "", fmt.Errorf("failed to load config %s: %w", p, loadErr)
	}

	resolved, err := EnsureDir(dir)
	return resolved, "default(~/.config/directshell)", err
}

// EnsureDir creates dir (and parents) if missing and returns it unchanged.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// StorePath returns the absolute path to the per-app SQLite store
// (<profileDir>/<appName>.db).
func StorePath(profileDir, appName string) string {
	return filepath.Join(profileDir, appName+".db")
}

// ArtifactPaths holds the paths of the three per-app projection artifacts
// plus the is_active marker for appName under profileDir.
type ArtifactPaths struct {
	OperableIndex string // <app>.a11y.snap
	Interactive   string // <app>.snap
	ScreenReader  string // <app>.a11y
	IsActive      string // is_active
}

// Artifacts computes the full artifact path set for appName under profileDir.
func Artifacts(profileDir, appName string) ArtifactPaths {
	return ArtifactPaths{
		OperableIndex: filepath.Join(profileDir, appName+".a11y.snap"),
		Interactive:   filepath.Join(profileDir, appName+".snap"),
		ScreenReader:  filepath.Join(profileDir, appName+".a11y"),
		IsActive:      filepath.Join(profileDir, "is_active"),
	}
}

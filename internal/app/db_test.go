package app

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetSettingsStateForTest() {
	settingsOnce = sync.Once{}
	settings = Settings{}
	settingsErr = nil
	SetProfileDirOverride("")
}

func TestGetProfileDir_PrioritizesCLIOverride(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DIRECTSHELL_PROFILE_DIR", filepath.Join(home, "env"))

	overrideDir := filepath.Join(home, "cli")
	SetProfileDirOverride(overrideDir)

	resolved, err := GetProfileDir()
	require.NoError(t, err)
	require.Equal(t, overrideDir, resolved)
	require.DirExists(t, resolved)
}

func TestGetProfileDir_UsesEnvWithoutOverride(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	envDir := filepath.Join(home, "env")
	t.Setenv("DIRECTSHELL_PROFILE_DIR", envDir)

	resolved, err := GetProfileDir()
	require.NoError(t, err)
	require.Equal(t, envDir, resolved)
}

func TestResolveProfileDirDetailed_ReportsSourceForEnv(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	envDir := filepath.Join(home, "env")
	t.Setenv("DIRECTSHELL_PROFILE_DIR", envDir)

	resolved, source, err := ResolveProfileDirDetailed()
	require.NoError(t, err)
	require.Equal(t, envDir, resolved)
	require.Equal(t, "env(DIRECTSHELL_PROFILE_DIR)", source)
}

func TestEnsureDir_CreatesParentDirectories(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "nested", "deep")

	resolved, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, resolved)
	require.DirExists(t, dir)
}

func TestStorePathAndArtifacts(t *testing.T) {
	profileDir := "/home/user/.config/directshell"
	require.Equal(t, "/home/user/.config/directshell/untitled.db", StorePath(profileDir, "untitled"))

	a := Artifacts(profileDir, "untitled")
	require.Equal(t, "/home/user/.config/directshell/untitled.a11y.snap", a.OperableIndex)
	require.Equal(t, "/home/user/.config/directshell/untitled.snap", a.Interactive)
	require.Equal(t, "/home/user/.config/directshell/untitled.a11y", a.ScreenReader)
	require.Equal(t, "/home/user/.config/directshell/is_active", a.IsActive)
}

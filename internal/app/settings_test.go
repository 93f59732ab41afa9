package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSettings_PrefersUserConfigOverLocal(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	workdir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	userConfigPath := filepath.Join(home, ".config", "directshell", "profile.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userConfigPath), 0o755))
	require.NoError(t, os.WriteFile(userConfigPath, []byte("profile_dir: /tmp/from-user\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(workdir, "profile.yaml"), []byte("profile_dir: /tmp/from-local\n"), 0o600))

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-user", s.ProfileDir)
}

func TestLoadSettings_FallsBackToLocalConfig(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	workdir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	require.NoError(t, os.WriteFile(filepath.Join(workdir, "profile.yaml"), []byte("profile_dir: /tmp/from-local\n"), 0o600))

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-local", s.ProfileDir)
}

func TestLoadSettings_InvalidYAMLReturnsError(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	userConfigPath := filepath.Join(home, ".config", "directshell", "profile.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userConfigPath), 0o755))
	require.NoError(t, os.WriteFile(userConfigPath, []byte("profile_dir: ["), 0o600))

	_, err := LoadSettings()
	require.Error(t, err)
}

func TestLoadSettingsFile_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile_dir: /tmp/read\ndump_hz: 4\n"), 0o600))

	s, err := loadSettingsFile(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/read", s.ProfileDir)
	require.Equal(t, 4.0, s.DumpHz)
}

func TestSettings_EffectiveFillsDefaults(t *testing.T) {
	s := Settings{}.Effective()
	require.Equal(t, DefaultDumpHz, s.DumpHz)
	require.Equal(t, DefaultDispatchHz, s.DispatchHz)
	require.Equal(t, DefaultConnectionTimeoutMS, s.ConnectionTimeoutMS)
	require.Equal(t, DefaultBatchCommitSize, s.BatchCommitSize)
	require.Equal(t, DefaultForegroundWaitMS, s.ForegroundWaitMS)
	require.Equal(t, DefaultTypeCharDelayMS, s.TypeCharDelayMS)
	require.Equal(t, DefaultActivationFirstWaitMS, s.ActivationFirstWaitMS)
	require.Equal(t, DefaultActivationSecondWaitMS, s.ActivationSecondWaitMS)

	override := Settings{DumpHz: 10}.Effective()
	require.Equal(t, 10.0, override.DumpHz)
	require.Equal(t, DefaultDispatchHz, override.DispatchHz)
}

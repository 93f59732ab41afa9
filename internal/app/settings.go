package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from profile.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	ProfileDir string `yaml:"profile_dir"`

	DumpHz     float64 `yaml:"dump_hz"`
	DispatchHz float64 `yaml:"dispatch_hz"`

	ConnectionTimeoutMS    int `yaml:"connection_timeout_ms"`
	BatchCommitSize        int `yaml:"batch_commit_size"`
	ForegroundWaitMS       int `yaml:"foreground_wait_ms"`
	TypeCharDelayMS        int `yaml:"type_char_delay_ms"`
	ActivationFirstWaitMS  int `yaml:"activation_first_wait_ms"`
	ActivationSecondWaitMS int `yaml:"activation_second_wait_ms"`
}

// Cadence defaults: ~2 Hz dump, ~33 Hz dispatch, ~2 s
// per-dump connection timeout, 200-row batch commits, ~50 ms foreground
// handoff wait, ~5 ms inter-character type delay, 300 ms + 500 ms
// activation waits.
const (
	DefaultDumpHz                 = 2.0
	DefaultDispatchHz             = 33.0
	DefaultConnectionTimeoutMS    = 2000
	DefaultBatchCommitSize        = 200
	DefaultForegroundWaitMS       = 50
	DefaultTypeCharDelayMS        = 5
	DefaultActivationFirstWaitMS  = 300
	DefaultActivationSecondWaitMS = 500
)

// Effective returns s with every zero-valued tunable replaced by its
// spec-mandated default.
func (s Settings) Effective() Settings {
	if s.DumpHz <= 0 {
		s.DumpHz = DefaultDumpHz
	}
	if s.DispatchHz <= 0 {
		s.DispatchHz = DefaultDispatchHz
	}
	if s.ConnectionTimeoutMS <= 0 {
		s.ConnectionTimeoutMS = DefaultConnectionTimeoutMS
	}
	if s.BatchCommitSize <= 0 {
		s.BatchCommitSize = DefaultBatchCommitSize
	}
	if s.ForegroundWaitMS <= 0 {
		s.ForegroundWaitMS = DefaultForegroundWaitMS
	}
	if s.TypeCharDelayMS <= 0 {
		s.TypeCharDelayMS = DefaultTypeCharDelayMS
	}
	if s.ActivationFirstWaitMS <= 0 {
		s.ActivationFirstWaitMS = DefaultActivationFirstWaitMS
	}
	if s.ActivationSecondWaitMS <= 0 {
		s.ActivationSecondWaitMS = DefaultActivationSecondWaitMS
	}
	return s
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load
// singleton for profile.yaml. profileDirOverrideMu and profileDirOverride
// implement a mutex-protected process-wide override for CLI --profile-dir.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	profileDirOverrideMu sync.RWMutex
	profileDirOverride   string
)

// SetProfileDirOverride sets a process-wide profile directory override.
// Intended for CLI flag support (--profile-dir).
func SetProfileDirOverride(dir string) {
	profileDirOverrideMu.Lock()
	profileDirOverride = dir
	profileDirOverrideMu.Unlock()
}

func getProfileDirOverride() string {
	profileDirOverrideMu.RLock()
	v := profileDirOverride
	profileDirOverrideMu.RUnlock()
	return v
}

// LoadSettings loads profile.yaml once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/directshell/profile.yaml
// 2) /etc/directshell/profile.yaml
// 3) ./profile.yaml (lowest priority; allows repo-local overrides)
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		if s, err := loadSettingsFile(filepath.Join(dir, "profile.yaml")); err == nil {
			settings = s
			return
		} else if !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		if s, err := loadSettingsFile(filepath.Join(string(os.PathSeparator), "etc", "directshell", "profile.yaml")); err == nil {
			settings = s
			return
		} else if !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		if s, err := loadSettingsFile("profile.yaml"); err == nil {
			settings = s
			return
		} else if !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

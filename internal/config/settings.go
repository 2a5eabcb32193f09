package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-tunable knobs. Everything here has a safe default
// so a missing config file is not an error. A Settings value is passed
// explicitly to every component that needs it; there is no global instance.
type Settings struct {
	// LargeFileMinMB is the minimum size (in MB) for the large-file scan.
	LargeFileMinMB int `yaml:"large_file_min_mb"`

	// VideoMinAgeDays is the minimum age (in days) for the old-video scan.
	VideoMinAgeDays int `yaml:"video_min_age_days"`

	// RegistryBackup controls whether registry cleaning writes a .reg
	// backup before deleting anything.
	RegistryBackup bool `yaml:"registry_backup"`

	// DeepScan widens junk/large/video scans to all mounted drives and
	// removes the recursion depth cap.
	DeepScan bool `yaml:"deep_scan"`

	// ExcludePatterns are glob patterns (matched against base names)
	// excluded from every scan.
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// DefaultSettings returns the defaults used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		LargeFileMinMB:  500,
		VideoMinAgeDays: 180,
		RegistryBackup:  true,
		DeepScan:        false,
	}
}

// DefaultSettingsPath returns %APPDATA%\pcsweep\config.yaml.
func DefaultSettingsPath() string {
	return filepath.Join(appData(), "pcsweep", "config.yaml")
}

// LoadSettings reads settings from path, falling back to defaults when the
// file does not exist. A present-but-malformed file is an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if s.LargeFileMinMB <= 0 {
		s.LargeFileMinMB = DefaultSettings().LargeFileMinMB
	}
	if s.VideoMinAgeDays <= 0 {
		s.VideoMinAgeDays = DefaultSettings().VideoMinAgeDays
	}

	return s, nil
}

// SaveSettings writes settings to path, creating parent directories.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

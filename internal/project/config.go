package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/FormFit/internal/model"
)

// DefaultConfigDir returns the default directory for user configuration.
// On all platforms this is ~/.formfit/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".formfit")
}

// DefaultConfigPath returns the default path of the settings defaults file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "formfit.toml")
}

// LoadDefaults reads user default settings from a TOML file. A missing file
// is not an error; it yields the built-in defaults, so a fresh install works
// without any setup.
func LoadDefaults(path string) (model.PlanSettings, error) {
	settings := model.DefaultPlanSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return model.DefaultPlanSettings(), err
	}
	return settings, nil
}

// SaveDefaults persists settings as the user's TOML defaults file, creating
// any missing parent directories.
func SaveDefaults(path string, settings model.PlanSettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(settings)
}

package kiosk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const keyHideCompleted = "hideCompleted"

// prefsFile is the on-disk layout. viper folds keys to lower case when it
// writes, so the file is written from this struct instead.
type prefsFile struct {
	HideCompleted bool `yaml:"hideCompleted"`
}

// Prefs is the kiosk's persisted view state, kept in a YAML file.
type Prefs struct {
	v    *viper.Viper
	path string
}

// DefaultPrefsPath is ~/.timeclock.yaml, or the working directory when there
// is no home directory.
func DefaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".timeclock.yaml"
	}
	return filepath.Join(home, ".timeclock.yaml")
}

// LoadPrefs reads path. A missing file yields the defaults.
func LoadPrefs(path string) (*Prefs, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(keyHideCompleted, false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read preferences %s: %w", path, err)
		}
	}
	return &Prefs{v: v, path: path}, nil
}

func (p *Prefs) HideCompleted() bool {
	return p.v.GetBool(keyHideCompleted)
}

// SetHideCompleted stores the flag and writes the file.
func (p *Prefs) SetHideCompleted(hide bool) error {
	raw, err := yaml.Marshal(prefsFile{HideCompleted: hide})
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(p.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	p.v.Set(keyHideCompleted, hide)
	return nil
}

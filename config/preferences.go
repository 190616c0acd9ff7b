package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences are the user settings that survive restarts.
type Preferences struct {
	DarkMode bool `yaml:"dark_mode"`
}

// PreferenceStore persists Preferences as a small YAML file.
// Read once at startup, written on every toggle.
type PreferenceStore struct {
	path string
}

// NewPreferenceStore returns a store backed by path. An empty path disables persistence.
func NewPreferenceStore(path string) *PreferenceStore {
	return &PreferenceStore{path: path}
}

// Path returns the backing file path.
func (s *PreferenceStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Load reads the stored preferences. A missing file yields the zero value and no error.
func (s *PreferenceStore) Load() (Preferences, error) {
	var p Preferences
	if s == nil || s.path == "" {
		return p, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("reading preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("parsing preferences: %w", err)
	}
	return p, nil
}

// Save writes the preferences, replacing the file atomically.
func (s *PreferenceStore) Save(p Preferences) error {
	if s == nil || s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating preferences directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing preferences: %w", err)
	}
	return nil
}

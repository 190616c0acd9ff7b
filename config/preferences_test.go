package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPreferenceStoreMissingFile(t *testing.T) {
	s := NewPreferenceStore(filepath.Join(t.TempDir(), "prefs.yaml"))

	p, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if p.DarkMode {
		t.Error("expected dark mode off by default")
	}
}

func TestPreferenceStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	s := NewPreferenceStore(path)

	if err := s.Save(Preferences{DarkMode: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !p.DarkMode {
		t.Error("expected dark mode to persist")
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after Save")
	}
}

func TestPreferenceStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("dark_mode: [not a bool"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewPreferenceStore(path).Load(); err == nil {
		t.Error("expected parse error for corrupt preferences")
	}
}

func TestPreferenceStoreDisabled(t *testing.T) {
	var nilStore *PreferenceStore
	if err := nilStore.Save(Preferences{DarkMode: true}); err != nil {
		t.Errorf("nil store Save should be a no-op, got %v", err)
	}
	if err := NewPreferenceStore("").Save(Preferences{DarkMode: true}); err != nil {
		t.Errorf("empty path Save should be a no-op, got %v", err)
	}
}

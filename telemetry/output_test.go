package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// Methods are nil-safe
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvent(Event{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), AgentCount: 56}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteSpecies([]SpeciesStats{{Species: "fish", Count: 30}, {Species: "goldfish", Count: 12}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvent(NewAssetEvent(5, "redfish.glb", errors.New("no such file"))); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file   string
		header string
		lines  int
	}{
		{"telemetry.csv", "window_end,sim_time,", 4},
		{"species.csv", "window_end,species,count", 3},
		{"events.csv", "type,tick,subject,detail", 2},
		{"perf.csv", "", 0},
		{"bookmarks.csv", "", 0},
	}
	for _, tt := range tests {
		data, err := os.ReadFile(filepath.Join(dir, tt.file))
		if err != nil {
			t.Fatalf("%s: %v", tt.file, err)
		}
		text := strings.TrimSpace(string(data))
		if tt.lines == 0 {
			if text != "" {
				t.Errorf("%s: expected empty file, got %q", tt.file, text)
			}
			continue
		}
		lines := strings.Split(text, "\n")
		if len(lines) != tt.lines {
			t.Errorf("%s: got %d lines, want %d", tt.file, len(lines), tt.lines)
		}
		if !strings.HasPrefix(lines[0], tt.header) {
			t.Errorf("%s: header %q, want prefix %q", tt.file, lines[0], tt.header)
		}
	}
}

package assets

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// buildGLB assembles a minimal binary glTF container around doc.
func buildGLB(doc string, magic uint32) []byte {
	for len(doc)%4 != 0 {
		doc += " "
	}
	total := glbHeaderLen + glbChunkHdr + len(doc)
	buf := make([]byte, 0, total)
	buf = binary.LittleEndian.AppendUint32(buf, magic)
	buf = binary.LittleEndian.AppendUint32(buf, 2)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(total))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(doc)))
	buf = binary.LittleEndian.AppendUint32(buf, glbChunkJSON)
	return append(buf, doc...)
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "boat.glb", buildGLB(`{"asset":{"version":"2.0"},"meshes":[{},{}]}`, glbMagic))
	writeFile(t, dir, "fish.gltf", []byte(`{"asset":{"version":"2.0"},"meshes":[{}]}`))
	writeFile(t, dir, "bad.glb", buildGLB(`{"asset":{"version":"2.0"}}`, 0xdeadbeef))
	writeFile(t, dir, "old.gltf", []byte(`{"asset":{"version":"1.0"}}`))
	writeFile(t, dir, "short.glb", []byte("glTF"))
	writeFile(t, dir, "fish.obj", []byte("v 0 0 0"))

	tests := []struct {
		id       string
		wantErr  error
		format   Format
		meshes   int
		notExist bool
	}{
		{id: "boat.glb", format: FormatGLB, meshes: 2},
		{id: "fish.gltf", format: FormatGLTF, meshes: 1},
		{id: "bad.glb", wantErr: ErrInvalidModel},
		{id: "old.gltf", wantErr: ErrInvalidModel},
		{id: "short.glb", wantErr: ErrInvalidModel},
		{id: "fish.obj", wantErr: ErrInvalidModel},
		{id: "missing.glb", wantErr: ErrUnknownAsset, notExist: true},
	}

	l := NewFileLoader(dir)
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, err := l.Load(context.Background(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.notExist && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("expected os.ErrNotExist in chain, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Format != tt.format || m.Meshes != tt.meshes {
				t.Errorf("got format %s meshes %d, want %s %d", m.Format, m.Meshes, tt.format, tt.meshes)
			}
			if m.Path != filepath.Join(dir, tt.id) || m.Size == 0 {
				t.Errorf("expected path and size recorded, got %q %d", m.Path, m.Size)
			}
		})
	}
}

func TestFileLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileLoader(t.TempDir()).Load(ctx, "boat.glb"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func drain(t *testing.T, tr *Tracker) map[string]Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(map[string]Result)
	for tr.Pending() > 0 {
		r, ok := tr.Next(ctx)
		if !ok {
			t.Fatalf("timed out with %d loads pending", tr.Pending())
		}
		got[r.ID] = r
	}
	return got
}

func TestTrackerDelivers(t *testing.T) {
	tr := NewTracker(&StaticLoader{Fail: map[string]bool{"redfish.glb": true}}, 4)
	defer tr.Close()

	for _, id := range []string{"fish.glb", "goldfish.glb", "redfish.glb", "fish.glb"} {
		tr.Request(id)
	}
	if tr.Pending() != 3 {
		t.Fatalf("expected duplicate request ignored, pending %d", tr.Pending())
	}

	got := drain(t, tr)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if r := got["fish.glb"]; r.Err != nil || r.Model == nil || r.Model.ID != "fish.glb" {
		t.Errorf("expected fish to load, got %+v", r)
	}
	r := got["redfish.glb"]
	if r.Model != nil {
		t.Error("failed load should carry no model")
	}
	if !errors.Is(r.Err, ErrLoad) || !errors.Is(r.Err, ErrUnknownAsset) {
		t.Errorf("expected ErrLoad wrapping ErrUnknownAsset, got %v", r.Err)
	}
	var le *LoadError
	if !errors.As(r.Err, &le) || le.ID != "redfish.glb" {
		t.Errorf("expected *LoadError for redfish, got %v", r.Err)
	}

	// A failed id is never retried
	tr.Request("redfish.glb")
	if tr.Pending() != 0 {
		t.Error("expected no retry of a failed load")
	}
}

func TestTrackerPollNonBlocking(t *testing.T) {
	tr := NewTracker(&StaticLoader{Delay: time.Hour}, 1)

	tr.Request("slow.glb")
	start := time.Now()
	if res := tr.Poll(); len(res) != 0 {
		t.Errorf("expected nothing ready, got %d", len(res))
	}
	if time.Since(start) > time.Second {
		t.Error("Poll blocked")
	}

	done := make(chan struct{})
	go func() {
		tr.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not cancel the in-flight load")
	}

	// Requests after Close are dropped
	tr.Request("late.glb")
	if tr.Pending() != 1 {
		t.Errorf("expected only the cancelled load pending, got %d", tr.Pending())
	}
}

func TestTrackerPollCollects(t *testing.T) {
	tr := NewTracker(&StaticLoader{}, 8)
	defer tr.Close()

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		tr.Request(id)
	}

	deadline := time.Now().Add(5 * time.Second)
	seen := 0
	for seen < len(ids) && time.Now().Before(deadline) {
		seen += len(tr.Poll())
		time.Sleep(time.Millisecond)
	}
	if seen != len(ids) || tr.Pending() != 0 {
		t.Errorf("expected all %d results via Poll, got %d (pending %d)", len(ids), seen, tr.Pending())
	}
}

// Package assets acquires model files off the simulation thread.
//
// A Loader is constructed by the caller and handed to a Tracker; nothing in
// this package keeps process-wide state.
package assets

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrLoad matches every failure delivered by a Tracker.
	ErrLoad = errors.New("asset load failed")

	// ErrUnknownAsset means the loader has no asset under the requested id.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrInvalidModel means the asset exists but is not a usable model.
	ErrInvalidModel = errors.New("invalid model")
)

// Format identifies how a model is stored.
type Format string

const (
	FormatGLB    Format = "glb"
	FormatGLTF   Format = "gltf"
	FormatStatic Format = "static"
)

// Model describes a loaded model. Geometry upload happens on the render
// thread from Path; a Model with an empty Path has no file behind it.
type Model struct {
	ID      string
	Path    string
	Format  Format
	Version string // glTF asset version
	Meshes  int
	Size    int64
}

// Loader fetches one model. Implementations must honor ctx cancellation and
// be safe to call from multiple goroutines.
type Loader interface {
	Load(ctx context.Context, id string) (*Model, error)
}

// LoadError wraps a failed load with the asset id. It matches ErrLoad.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading asset %q: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

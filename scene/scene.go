// Package scene defines the one-way contract between the simulation and whatever draws it.
package scene

import "gonum.org/v1/gonum/spatial/r3"

// Pose is the transform of one visual entity.
// Rotation holds Euler angles in radians, applied in Y, X, Z order.
type Pose struct {
	Position r3.Vec
	Rotation r3.Vec
	Scale    float64
}

// EntityID names a visual entity: a species id and an instance index, or the vessel.
type EntityID struct {
	Kind  string
	Index int
}

// VesselID identifies the player vessel.
var VesselID = EntityID{Kind: "vessel"}

// Sink receives poses every tick. Publishing never feeds back into simulation state.
type Sink interface {
	Publish(id EntityID, pose Pose)
}

// DarkModeAware is implemented by components with day and night appearances.
// Implementations may only change cosmetic parameters such as colours and lights.
type DarkModeAware interface {
	SetDarkMode(enabled bool)
}

// ApplyDarkMode forwards the flag to every target that supports it and reports how many did.
func ApplyDarkMode(enabled bool, targets ...any) int {
	n := 0
	for _, t := range targets {
		if d, ok := t.(DarkModeAware); ok {
			d.SetDarkMode(enabled)
			n++
		}
	}
	return n
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(id EntityID, pose Pose)

// Publish calls f.
func (f SinkFunc) Publish(id EntityID, pose Pose) { f(id, pose) }

// Package input turns key state into a movement intent for the vessel.
package input

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Flags are the four discrete movement controls.
type Flags struct {
	Forward, Backward, Left, Right bool
}

// Any reports whether any control is held.
func (f Flags) Any() bool {
	return f.Forward || f.Backward || f.Left || f.Right
}

// Vector converts flags to an intent vector.
// X is lateral (left = -1), Y carries the z axis (forward = -1).
// Diagonals are normalized so the length never exceeds 1.
func (f Flags) Vector() r2.Vec {
	var v r2.Vec
	if f.Forward {
		v.Y--
	}
	if f.Backward {
		v.Y++
	}
	if f.Left {
		v.X--
	}
	if f.Right {
		v.X++
	}
	return ClampIntent(v)
}

// IntentSource provides the vessel's movement intent, read once per tick.
type IntentSource interface {
	MovementVector() r2.Vec
	ControlFlags() Flags
}

// ClampIntent limits v to unit length. Non-finite components become zero.
func ClampIntent(v r2.Vec) r2.Vec {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) {
		v.X = 0
	}
	if math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		v.Y = 0
	}
	n := r2.Norm(v)
	if n > 1 {
		return r2.Scale(1/n, v)
	}
	return v
}

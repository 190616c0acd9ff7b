// Package camera provides the trailing camera that follows the vessel.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/config"
)

// frameRate is the rate the lerp factors were tuned at.
const frameRate = 60.0

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// FollowState is the smoothed camera state.
type FollowState struct {
	CurrentPosition r3.Vec
	TargetPosition  r3.Vec
	CurrentLookAt   r3.Vec
	TargetLookAt    r3.Vec
}

// Follow trails the vessel. Position and look-at chase their targets at
// separate rates, so the gaze stays responsive while the body lags.
type Follow struct {
	// Offset from the vessel in its local frame (behind and above)
	Offset r3.Vec

	// LookHeight raises the look-at point above the vessel
	LookHeight float64

	// Per 1/60 s lerp factors
	PositionRate, LookAtRate float64

	// Sway amplitudes on the local X and Y axes
	SwayX, SwayY float64

	// Vertical field of view in degrees, used by the renderer
	FovY float64

	state       FollowState
	time        float64
	initialized bool
}

// New creates a follow camera from config.
func New(cfg config.CameraConfig) *Follow {
	return &Follow{
		Offset:       r3.Vec{X: cfg.Offset[0], Y: cfg.Offset[1], Z: cfg.Offset[2]},
		LookHeight:   cfg.LookHeight,
		PositionRate: cfg.PositionRate,
		LookAtRate:   cfg.LookAtRate,
		SwayX:        cfg.SwayX,
		SwayY:        cfg.SwayY,
		FovY:         cfg.FovY,
	}
}

// Tick moves the camera toward the vessel-relative target.
// orientation holds Euler angles (X pitch, Y yaw, Z roll).
// The first tick after New or Reset snaps current to target.
func (f *Follow) Tick(vesselPos, orientation r3.Vec, dt float64) {
	if !(dt >= 0) || math.IsInf(dt, 0) {
		return
	}
	f.time += dt

	offset := rotateEuler(f.Offset, orientation)
	offset.X += math.Sin(f.time*0.8) * f.SwayX
	offset.Y += math.Cos(f.time*0.6) * f.SwayY

	f.state.TargetPosition = r3.Add(vesselPos, offset)
	f.state.TargetLookAt = r3.Add(vesselPos, r3.Vec{Y: f.LookHeight})

	if !f.initialized {
		f.state.CurrentPosition = f.state.TargetPosition
		f.state.CurrentLookAt = f.state.TargetLookAt
		f.initialized = true
		return
	}

	f.state.CurrentPosition = lerp(f.state.CurrentPosition, f.state.TargetPosition, rateFor(f.PositionRate, dt))
	f.state.CurrentLookAt = lerp(f.state.CurrentLookAt, f.state.TargetLookAt, rateFor(f.LookAtRate, dt))
}

// Pose returns the current camera position and look-at point.
func (f *Follow) Pose() (position, lookAt r3.Vec) {
	return f.state.CurrentPosition, f.state.CurrentLookAt
}

// State returns a copy of the smoothing state.
func (f *Follow) State() FollowState { return f.state }

// Reset makes the next Tick snap to its target.
func (f *Follow) Reset() {
	f.initialized = false
	f.time = 0
}

// rateFor converts a per-frame lerp factor to one for an arbitrary dt.
func rateFor(perFrame, dt float64) float64 {
	perFrame = clamp(perFrame, 0, 1)
	return 1 - math.Pow(1-perFrame, dt*frameRate)
}

func lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// rotateEuler applies roll (Z), then pitch (X), then yaw (Y) to v.
func rotateEuler(v, euler r3.Vec) r3.Vec {
	if euler.Z != 0 {
		v = r3.NewRotation(euler.Z, axisZ).Rotate(v)
	}
	if euler.X != 0 {
		v = r3.NewRotation(euler.X, axisX).Rotate(v)
	}
	if euler.Y != 0 {
		v = r3.NewRotation(euler.Y, axisY).Rotate(v)
	}
	return v
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

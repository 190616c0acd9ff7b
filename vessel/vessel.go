// Package vessel integrates player intent into the motion of the player's boat.
package vessel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/scene"
)

// frameRate is the rate the per-frame drag multipliers were tuned at.
const frameRate = 60.0

// State is the vessel's kinematic state. Heading 0 faces -Z.
type State struct {
	Position        r3.Vec
	Velocity        r3.Vec
	Acceleration    r3.Vec // Per-tick force accumulator, zeroed at the end of Tick
	AngularVelocity float64
	Heading         float64
	Banking         float64
	Pitch           float64
	TargetBanking   float64
	TargetPitch     float64
	Time            float64
}

// Controller owns the vessel state. Only its methods mutate it; readers get copies.
type Controller struct {
	cfg        config.VesselConfig
	limit      float64
	waterLevel float64
	scale      float64

	state     State
	navLights bool
	clamped   bool // Held at the boundary on the last tick
}

// New creates a vessel at rest at the origin, floating on the water.
func New(cfg config.VesselConfig, world config.WorldConfig) *Controller {
	c := &Controller{
		cfg:        cfg,
		limit:      world.Boundary - world.VesselPadding,
		waterLevel: world.WaterLevel,
		scale:      1,
	}
	c.state.Position.Y = c.floatHeight()
	return c
}

// Forward returns the unit vector the bow points along.
func (c *Controller) Forward() r3.Vec {
	h := c.state.Heading
	return r3.Vec{X: -math.Sin(h), Z: -math.Cos(h)}
}

// ApplyMovementInput accumulates thrust and torque from an intent vector.
// intent.X is lateral (left = -1) and intent.Y is the z axis (forward = -1).
// A zero intent is a no-op; drag and settling still happen in Tick.
func (c *Controller) ApplyMovementInput(intent r2.Vec, dt float64) {
	if !validStep(dt) {
		return
	}
	n := r2.Norm(intent)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return
	}
	if n > 1 {
		intent = r2.Scale(1/n, intent)
	}

	s := &c.state
	fwd := c.Forward()

	if intent.Y != 0 {
		thrust := -intent.Y * c.cfg.ThrustForce
		if intent.Y > 0 {
			thrust *= c.cfg.ReverseRatio
		}
		s.Acceleration = r3.Add(s.Acceleration, r3.Scale(thrust, fwd))
	}

	if intent.X != 0 {
		speed := r3.Norm(s.Velocity)
		effect := clamp(speed/c.cfg.TurnFullSpeed, c.cfg.TurnMinEffect, 1)
		if r3.Dot(s.Velocity, fwd) < 0 {
			effect = -effect
		}
		s.AngularVelocity += -intent.X * c.cfg.TurnTorque * effect * dt
		s.AngularVelocity = clamp(s.AngularVelocity, -c.cfg.MaxAngularSpeed, c.cfg.MaxAngularSpeed)
	}
}

// Tick advances the vessel by dt seconds. Non-positive or non-finite steps are ignored.
func (c *Controller) Tick(dt float64) {
	if !validStep(dt) {
		return
	}
	s := &c.state
	frames := dt * frameRate

	// Rotation settles every tick, input or not
	s.AngularVelocity = clamp(s.AngularVelocity, -c.cfg.MaxAngularSpeed, c.cfg.MaxAngularSpeed)
	s.AngularVelocity *= math.Pow(c.cfg.AngularDrag, frames)

	s.Velocity = r3.Add(s.Velocity, r3.Scale(dt, s.Acceleration))
	speed := r3.Norm(s.Velocity)
	if speed > c.cfg.MaxSpeed {
		s.Velocity = r3.Scale(c.cfg.MaxSpeed/speed, s.Velocity)
		speed = c.cfg.MaxSpeed
	}
	s.Velocity = r3.Scale(math.Pow(c.dragAt(speed), frames), s.Velocity)

	s.Heading = wrapAngle(s.Heading + s.AngularVelocity*dt)
	s.Position = r3.Add(s.Position, r3.Scale(dt, s.Velocity))

	// Turning rolls the hull, thrust along the bow lifts it
	s.TargetBanking = s.AngularVelocity / c.cfg.MaxAngularSpeed * c.cfg.MaxBank
	fwdAccel := r3.Dot(s.Acceleration, c.Forward())
	s.TargetPitch = clamp(fwdAccel/c.cfg.ThrustForce, -1, 1) * c.cfg.MaxPitch
	k := 1 - math.Exp(-c.cfg.TiltLerpRate*dt)
	s.Banking += (s.TargetBanking - s.Banking) * k
	s.Pitch += (s.TargetPitch - s.Pitch) * k

	s.Time += dt
	s.Position.Y = c.floatHeight()

	c.clampToBoundary()
	s.Acceleration = r3.Vec{}
}

// dragAt returns the per-frame velocity multiplier for a speed.
// Above the wake threshold the wake drag blends in linearly up to max speed.
func (c *Controller) dragAt(speed float64) float64 {
	if speed <= c.cfg.WakeThreshold {
		return c.cfg.LinearDrag
	}
	t := clamp((speed-c.cfg.WakeThreshold)/(c.cfg.MaxSpeed-c.cfg.WakeThreshold), 0, 1)
	return c.cfg.LinearDrag + (c.cfg.WakeDrag-c.cfg.LinearDrag)*t
}

func (c *Controller) floatHeight() float64 {
	t := c.state.Time
	return c.waterLevel + c.cfg.FloatHeight + math.Sin(t*c.cfg.FloatFrequency)*c.cfg.FloatAmplitude
}

// clampToBoundary keeps the hull inside the square. A clamped axis may still
// move back inward but not further out.
func (c *Controller) clampToBoundary() {
	s := &c.state
	c.clamped = math.Abs(s.Position.X) > c.limit || math.Abs(s.Position.Z) > c.limit
	if s.Position.X > c.limit {
		s.Position.X = c.limit
		s.Velocity.X = math.Min(0, s.Velocity.X)
	} else if s.Position.X < -c.limit {
		s.Position.X = -c.limit
		s.Velocity.X = math.Max(0, s.Velocity.X)
	}
	if s.Position.Z > c.limit {
		s.Position.Z = c.limit
		s.Velocity.Z = math.Min(0, s.Velocity.Z)
	} else if s.Position.Z < -c.limit {
		s.Position.Z = -c.limit
		s.Velocity.Z = math.Max(0, s.Velocity.Z)
	}
}

// AtBoundary reports whether the last Tick clamped the hull to the edge.
func (c *Controller) AtBoundary() bool { return c.clamped }

// SetConfig swaps the tuning parameters, keeping the current motion.
func (c *Controller) SetConfig(cfg config.VesselConfig) { c.cfg = cfg }

// Config returns the tuning parameters in use.
func (c *Controller) Config() config.VesselConfig { return c.cfg }

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// Position returns the hull position.
func (c *Controller) Position() r3.Vec { return c.state.Position }

// Speed returns the magnitude of the linear velocity.
func (c *Controller) Speed() float64 { return r3.Norm(c.state.Velocity) }

// Heading returns the yaw angle in radians.
func (c *Controller) Heading() float64 { return c.state.Heading }

// AngularVelocity returns the yaw rate in radians per second.
func (c *Controller) AngularVelocity() float64 { return c.state.AngularVelocity }

// Banking returns the input-driven roll, without idle sway.
func (c *Controller) Banking() float64 { return c.state.Banking }

// Pitch returns the input-driven pitch, without idle sway.
func (c *Controller) Pitch() float64 { return c.state.Pitch }

// Orientation returns the displayed Euler angles (X pitch, Y yaw, Z roll), idle sway included.
func (c *Controller) Orientation() r3.Vec {
	t := c.state.Time
	f := c.cfg.FloatFrequency
	return r3.Vec{
		X: c.state.Pitch + math.Cos(t*f*0.5)*c.cfg.SwayPitchAmp,
		Y: c.state.Heading,
		Z: c.state.Banking + math.Sin(t*f*0.7)*c.cfg.SwayRollAmp,
	}
}

// Pose returns the transform to publish.
func (c *Controller) Pose() scene.Pose {
	return scene.Pose{Position: c.state.Position, Rotation: c.Orientation(), Scale: c.scale}
}

// Publish sends the vessel pose to the sink.
func (c *Controller) Publish(sink scene.Sink) {
	if sink == nil {
		return
	}
	sink.Publish(scene.VesselID, c.Pose())
}

// SetDarkMode switches the navigation lights. Motion is unaffected.
func (c *Controller) SetDarkMode(enabled bool) { c.navLights = enabled }

// NavigationLights reports whether the running lights are on.
func (c *Controller) NavigationLights() bool { return c.navLights }

func validStep(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapAngle wraps an angle to [-Pi, Pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

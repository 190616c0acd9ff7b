package config

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError lists every out-of-range configuration value found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) positive(name string, x float64) {
	if !(x > 0) || math.IsInf(x, 0) {
		v.addf("%s must be > 0, got %v", name, x)
	}
}

func (v *validator) nonNegative(name string, x float64) {
	if !(x >= 0) || math.IsInf(x, 0) {
		v.addf("%s must be >= 0, got %v", name, x)
	}
}

func (v *validator) fraction(name string, x float64) {
	if !(x >= 0 && x <= 1) {
		v.addf("%s must be in [0, 1], got %v", name, x)
	}
}

// multiplier checks a per-frame decay factor, which must shrink without flipping sign.
func (v *validator) multiplier(name string, x float64) {
	if !(x > 0 && x <= 1) {
		v.addf("%s must be in (0, 1], got %v", name, x)
	}
}

func (v *validator) span(name string, r RangeConfig) {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
		v.addf("%s: min %v must not exceed max %v", name, r.Min, r.Max)
	}
}

// Validate checks the configuration and returns a *ValidationError describing
// every problem, or nil. Called by Load so a bad file stops startup.
func (c *Config) Validate() error {
	v := &validator{}

	w := c.World
	v.positive("world.dt", w.DT)
	v.positive("world.boundary", w.Boundary)
	v.nonNegative("world.vessel_padding", w.VesselPadding)
	v.nonNegative("world.agent_padding", w.AgentPadding)
	v.nonNegative("world.target_margin", w.TargetMargin)
	if w.VesselPadding >= w.Boundary || w.AgentPadding >= w.Boundary || w.TargetMargin >= w.Boundary {
		v.addf("world paddings must be smaller than boundary %v", w.Boundary)
	}
	if w.MaxDepth >= w.WaterLevel {
		v.addf("world.max_depth %v must be below water_level %v", w.MaxDepth, w.WaterLevel)
	}
	if w.GridDivisions < 1 {
		v.addf("world.grid_divisions must be >= 1, got %d", w.GridDivisions)
	}
	v.fraction("world.spawn_jitter", w.SpawnJitter)
	v.nonNegative("world.vertical_jitter", w.VerticalJitter)

	vc := c.Vessel
	v.positive("vessel.max_speed", vc.MaxSpeed)
	v.positive("vessel.thrust_force", vc.ThrustForce)
	v.fraction("vessel.reverse_ratio", vc.ReverseRatio)
	v.nonNegative("vessel.turn_torque", vc.TurnTorque)
	v.positive("vessel.max_angular_speed", vc.MaxAngularSpeed)
	v.multiplier("vessel.angular_drag", vc.AngularDrag)
	v.multiplier("vessel.linear_drag", vc.LinearDrag)
	v.multiplier("vessel.wake_drag", vc.WakeDrag)
	if !(vc.WakeThreshold >= 0 && vc.WakeThreshold < vc.MaxSpeed) {
		v.addf("vessel.wake_threshold %v must be in [0, max_speed)", vc.WakeThreshold)
	}
	v.positive("vessel.turn_full_speed", vc.TurnFullSpeed)
	v.fraction("vessel.turn_min_effect", vc.TurnMinEffect)
	v.nonNegative("vessel.tilt_lerp_rate", vc.TiltLerpRate)

	cc := c.Camera
	v.fraction("camera.position_rate", cc.PositionRate)
	v.fraction("camera.look_at_rate", cc.LookAtRate)

	if len(c.Species) == 0 {
		v.addf("at least one species is required")
	}
	seen := make(map[string]bool, len(c.Species))
	for i, sp := range c.Species {
		name := fmt.Sprintf("species[%d]", i)
		if sp.ID == "" {
			v.addf("%s: id is required", name)
		} else {
			name = "species." + sp.ID
			if seen[sp.ID] {
				v.addf("%s: duplicate id", name)
			}
			seen[sp.ID] = true
		}
		c.validateSpecies(v, name, sp)
	}

	if c.Telemetry.StatsWindow <= 0 {
		v.addf("telemetry.stats_window must be > 0, got %v", c.Telemetry.StatsWindow)
	}
	for i, seg := range c.Autopilot.Segments {
		v.nonNegative(fmt.Sprintf("autopilot.segments[%d].duration", i), seg.Duration)
	}

	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

func (c *Config) validateSpecies(v *validator, name string, sp SpeciesConfig) {
	if sp.Population < 0 {
		v.addf("%s.population must be >= 0, got %d", name, sp.Population)
	}
	v.span(name+".speed", sp.Speed)
	v.nonNegative(name+".speed.min", sp.Speed.Min)
	v.span(name+".depth", sp.Depth)
	v.span(name+".pause", sp.Pause)
	v.nonNegative(name+".pause.min", sp.Pause.Min)
	v.span(name+".target_change", sp.TargetChange)
	v.nonNegative(name+".target_change.min", sp.TargetChange.Min)
	v.span(name+".roam_radius", sp.RoamRadius)
	v.nonNegative(name+".roam_radius.min", sp.RoamRadius.Min)
	v.span(name+".smoothing", sp.Smoothing)
	v.positive(name+".scale", sp.Scale)
	v.positive(name+".collision_radius", sp.CollisionRadius)
	v.fraction(name+".initial_pause_chance", sp.InitialPauseChance)
	v.fraction(name+".pause_chance", sp.PauseChance)
	v.fraction(name+".pause_exit_fraction", sp.PauseExitFraction)
	v.nonNegative(name+".seek_threshold", sp.SeekThreshold)
	v.nonNegative(name+".arrival_threshold", sp.ArrivalThreshold)
	v.positive(name+".distance_ratio_divisor", sp.DistanceRatioDivisor)
	v.nonNegative(name+".liveliness", sp.Liveliness)
	v.nonNegative(name+".velocity_gain", sp.VelocityGain)
	v.multiplier(name+".arrival_damping", sp.ArrivalDamping)
	v.multiplier(name+".paused_damping", sp.PausedDamping)
	v.nonNegative(name+".turn_rate", sp.TurnRate)
	v.nonNegative(name+".min_distance_from_vessel", sp.MinDistanceFromVessel)
	v.nonNegative(name+".ceiling_rebound", sp.CeilingRebound)
	v.nonNegative(name+".floor_rebound", sp.FloorRebound)

	if sp.Floor >= sp.Ceiling {
		v.addf("%s: floor %v must be below ceiling %v", name, sp.Floor, sp.Ceiling)
	}
	if sp.Ceiling > c.Derived.SurfaceLimit {
		v.addf("%s: ceiling %v is above the surface limit %v", name, sp.Ceiling, c.Derived.SurfaceLimit)
	}
	// Wander targets are clamped into the overlap of the depth band and the
	// species limits, so that overlap must exist.
	lo := math.Max(sp.Depth.Min, sp.Floor)
	hi := math.Min(c.Derived.SurfaceLimit, sp.Ceiling)
	if lo > hi {
		v.addf("%s: depth band %v..%v does not overlap limits %v..%v", name, sp.Depth.Min, sp.Depth.Max, sp.Floor, hi)
	}
}

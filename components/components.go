// Package components defines ECS components for marine agents.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Position is an agent's world position.
type Position struct {
	r3.Vec
}

// Velocity is an agent's linear velocity.
type Velocity struct {
	r3.Vec
}

// Rotation holds the displayed Euler angles (X pitch wobble, Y heading, Z roll wobble)
// and the smoothed heading pair the Y angle is taken from.
type Rotation struct {
	X, Y, Z float64

	CurrentY float64 // Smoothed heading
	TargetY  float64 // Heading of the velocity direction
}

// Behavior is the seek/pause state of an agent.
type Behavior struct {
	Target               r3.Vec
	TargetChangeTimer    float64
	TargetChangeDuration float64
	PauseTimer           float64
	PauseDuration        float64
	VerticalPhase        float64
	Paused               bool
}

// Home anchors an agent to its spawn point.
type Home struct {
	Center r3.Vec
	Radius float64 // Roam radius around Center
}

// Agent links an entity to its species and carries per-instance variation.
type Agent struct {
	Species   int     // Index into the simulator's species table
	BaseSpeed float64 // Cruise speed drawn from the species speed range
	Smoothing float64 // Per-instance heading smoothing factor
	Phase     float64 // Animation phase offset

	// Visit counters
	Pauses   uint32
	Resumes  uint32
	Arrivals uint32
}

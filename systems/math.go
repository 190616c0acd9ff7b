package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// clampSpeed scales v down so its length does not exceed max.
func clampSpeed(v r3.Vec, max float64) r3.Vec {
	s := r3.Norm(v)
	if s > max && s > 0 {
		return r3.Scale(max/s, v)
	}
	return v
}

// frameDecay rescales a per-frame (1/60 s) multiplier to a step of dt seconds.
func frameDecay(m, dt float64) float64 {
	return math.Pow(m, dt*60)
}

func validStep(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}

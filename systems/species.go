package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/velamare/config"
)

// SpeciesProfile is the read-only tuning of one species, shared by all of its agents.
type SpeciesProfile struct {
	config.SpeciesConfig
	Index int
}

// NewSpeciesProfiles wraps configured species in profiles, indexed in order.
func NewSpeciesProfiles(species []config.SpeciesConfig) []*SpeciesProfile {
	out := make([]*SpeciesProfile, len(species))
	for i, sp := range species {
		out[i] = &SpeciesProfile{SpeciesConfig: sp, Index: i}
	}
	return out
}

// DefaultSpecies returns the built-in fish, goldfish and redfish profiles.
func DefaultSpecies() ([]*SpeciesProfile, error) {
	cfg, err := config.Defaults()
	if err != nil {
		return nil, fmt.Errorf("loading default species: %w", err)
	}
	return NewSpeciesProfiles(cfg.Species), nil
}

// SpeedMax is the hard cap on agent speed.
func (p *SpeciesProfile) SpeedMax() float64 { return p.Speed.Max }

// VerticalBounds returns the [floor, ceiling] band every agent stays in.
func (p *SpeciesProfile) VerticalBounds() (lo, hi float64) {
	return p.Floor, p.Ceiling
}

// TargetBand returns the y range wander targets are clamped to. It is the
// overlap of the depth band floor, the species limits and the surface limit,
// so agents can always reach their targets.
func (p *SpeciesProfile) TargetBand(surfaceLimit float64) (lo, hi float64) {
	lo = math.Max(p.Depth.Min, p.Floor)
	hi = math.Min(surfaceLimit, p.Ceiling)
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// Damping returns the per-frame velocity multiplier for a state.
func (p *SpeciesProfile) Damping(paused bool) float64 {
	if paused {
		return p.PausedDamping
	}
	return p.ArrivalDamping
}

// AvoidGain returns the avoidance gain for a state.
func (p *SpeciesProfile) AvoidGain(paused bool) float64 {
	if paused {
		return p.AvoidGainPaused
	}
	return p.AvoidGainSeeking
}

// draw returns a uniform sample from r.
func draw(rng *rand.Rand, r config.RangeConfig) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

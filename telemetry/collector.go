package telemetry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/systems"
)

// Collector accumulates per-tick samples within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec float64
	waterLevel        float64

	// Current window tracking
	windowStartTick int32
	windowStartSec  float64

	// Samples for current window
	vesselSpeeds   []float64
	boundaryHits   int
	wasAtBoundary  bool
	assetsLoaded   int
	assetsFailed   int
	lastTransition systems.TransitionCounts
}

// windowEpsilon absorbs rounding in the accumulated scene time.
const windowEpsilon = 1e-9

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in scene seconds
// waterLevel: the y of the surface, depths are measured down from it
func NewCollector(windowDurationSec float64, waterLevel float64) *Collector {
	return &Collector{
		windowDurationSec: math.Max(0, windowDurationSec),
		waterLevel:        waterLevel,
	}
}

// RecordVessel records the vessel's speed for one tick. A boundary hit is
// counted each time the hull arrives at the edge, not for every tick held there.
func (c *Collector) RecordVessel(speed float64, atBoundary bool) (hit bool) {
	c.vesselSpeeds = append(c.vesselSpeeds, speed)
	hit = atBoundary && !c.wasAtBoundary
	if hit {
		c.boundaryHits++
	}
	c.wasAtBoundary = atBoundary
	return hit
}

// RecordAssetLoad records a finished model load.
func (c *Collector) RecordAssetLoad(err error) {
	if err != nil {
		c.assetsFailed++
	} else {
		c.assetsLoaded++
	}
}

// ShouldFlush returns true once the window has covered its duration of scene
// time. Frames may have any length, so the window is measured in seconds.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartSec >= c.windowDurationSec-windowEpsilon
}

// VesselSample is the vessel state sampled at window end.
type VesselSample struct {
	Position r3.Vec
	Heading  float64
}

// Flush produces a WindowStats plus one SpeciesStats per species present in
// agents, and resets counters for the next window. totals are the simulator's
// running transition counts; the window records the change since last Flush.
func (c *Collector) Flush(
	currentTick int32,
	simTime float64,
	vessel VesselSample,
	agents []systems.AgentView,
	totals systems.TransitionCounts,
) (WindowStats, []SpeciesStats) {
	speeds := make([]float64, len(agents))
	depths := make([]float64, len(agents))
	paused := 0

	type speciesAcc struct {
		count, paused int
		speed, depth  float64
	}
	perSpecies := make(map[string]*speciesAcc)

	for i, a := range agents {
		speeds[i] = r3.Norm(a.Velocity)
		depths[i] = c.waterLevel - a.Position.Y
		acc := perSpecies[a.Species]
		if acc == nil {
			acc = &speciesAcc{}
			perSpecies[a.Species] = acc
		}
		acc.count++
		acc.speed += speeds[i]
		acc.depth += depths[i]
		if a.Paused {
			paused++
			acc.paused++
		}
	}

	var pausedFrac float64
	if len(agents) > 0 {
		pausedFrac = float64(paused) / float64(len(agents))
	}

	speedMean, speedStd, speedP10, speedP50, speedP90 := ComputeDistribution(speeds)
	depthMean, _, depthP10, depthP50, depthP90 := ComputeDistribution(depths)
	vesselMean, vesselMax := meanMax(c.vesselSpeeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		VesselSpeedMean: vesselMean,
		VesselSpeedMax:  vesselMax,
		VesselX:         vessel.Position.X,
		VesselZ:         vessel.Position.Z,
		VesselHeading:   vessel.Heading,
		BoundaryHits:    c.boundaryHits,

		AgentCount:     len(agents),
		ActiveSpecies:  len(perSpecies),
		PausedFraction: pausedFrac,

		SpeedMean: speedMean,
		SpeedStd:  speedStd,
		SpeedP10:  speedP10,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		DepthMean: depthMean,
		DepthP10:  depthP10,
		DepthP50:  depthP50,
		DepthP90:  depthP90,

		Pauses:   int(totals.Pauses - c.lastTransition.Pauses),
		Resumes:  int(totals.Resumes - c.lastTransition.Resumes),
		Arrivals: int(totals.Arrivals - c.lastTransition.Arrivals),

		AssetsLoaded: c.assetsLoaded,
		AssetsFailed: c.assetsFailed,
	}

	ids := make([]string, 0, len(perSpecies))
	for id := range perSpecies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	species := make([]SpeciesStats, 0, len(ids))
	for _, id := range ids {
		acc := perSpecies[id]
		n := float64(acc.count)
		species = append(species, SpeciesStats{
			WindowEndTick:  currentTick,
			Species:        id,
			Count:          acc.count,
			PausedFraction: float64(acc.paused) / n,
			SpeedMean:      acc.speed / n,
			DepthMean:      acc.depth / n,
		})
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartSec = simTime
	c.vesselSpeeds = c.vesselSpeeds[:0]
	c.boundaryHits = 0
	c.assetsLoaded = 0
	c.assetsFailed = 0
	c.lastTransition = totals

	return stats, species
}

// WindowDuration returns the window length in scene seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}

package telemetry

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/systems"
)

func TestCollectorWindowFollowsSceneTime(t *testing.T) {
	tests := []struct {
		name   string
		frames []float64
		want   int // flushes
	}{
		{"steady 60fps", repeat(1.0/60, 90), 3},
		{"steady 30fps", repeat(1.0/30, 45), 3},
		{"uneven frames", []float64{0.1, 0.3, 0.05, 0.1, 0.2, 0.25, 0.1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(0.5, 0)
			var simTime float64
			var flushes int
			var last WindowStats
			for i, dt := range tt.frames {
				simTime += dt
				if c.ShouldFlush(simTime) {
					last, _ = c.Flush(int32(i+1), simTime, VesselSample{}, nil, systems.TransitionCounts{})
					flushes++
				}
			}
			if flushes != tt.want {
				t.Errorf("expected %d windows, got %d", tt.want, flushes)
			}
			if last.SimTimeSec > simTime+1e-12 || last.SimTimeSec < 0.5*float64(tt.want)-1e-9 {
				t.Errorf("window end %v does not match scene time %v", last.SimTimeSec, simTime)
			}
		})
	}
}

func TestCollectorZeroWindow(t *testing.T) {
	c := NewCollector(0, 0)
	if !c.ShouldFlush(0.001) {
		t.Error("expected a zero window to flush every step")
	}
}

func repeat(dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = dt
	}
	return out
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 0)
	if c.ShouldFlush(0.9) || !c.ShouldFlush(1) {
		t.Fatal("expected a flush after one second")
	}

	hits := 0
	for i, at := range []bool{false, true, true, false, true} {
		if c.RecordVessel(float64(i), at) {
			hits++
		}
	}
	if hits != 2 {
		t.Errorf("expected 2 boundary arrivals, got %d", hits)
	}
	c.RecordAssetLoad(nil)
	c.RecordAssetLoad(errors.New("missing"))

	agents := []systems.AgentView{
		{Species: "fish", Position: r3.Vec{Y: -2}, Velocity: r3.Vec{X: 3, Z: 4}},
		{Species: "fish", Position: r3.Vec{Y: -4}, Paused: true},
		{Species: "goldfish", Position: r3.Vec{Y: -6}, Velocity: r3.Vec{Y: 1}},
	}
	totals := systems.TransitionCounts{Pauses: 5, Resumes: 3, Arrivals: 7}
	stats, species := c.Flush(10, 1, VesselSample{Position: r3.Vec{X: 1, Z: -2}, Heading: 0.5}, agents, totals)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 10 {
		t.Errorf("window %d..%d, want 0..10", stats.WindowStartTick, stats.WindowEndTick)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-6 {
		t.Errorf("sim time %v, want 1", stats.SimTimeSec)
	}
	if stats.VesselSpeedMean != 2 || stats.VesselSpeedMax != 4 || stats.BoundaryHits != 2 {
		t.Errorf("vessel stats mean %v max %v hits %d", stats.VesselSpeedMean, stats.VesselSpeedMax, stats.BoundaryHits)
	}
	if stats.AgentCount != 3 || stats.ActiveSpecies != 2 {
		t.Errorf("got %d agents in %d species", stats.AgentCount, stats.ActiveSpecies)
	}
	if math.Abs(stats.PausedFraction-1.0/3) > 1e-9 {
		t.Errorf("paused fraction %v, want 1/3", stats.PausedFraction)
	}
	if math.Abs(stats.SpeedMean-2) > 1e-9 || math.Abs(stats.DepthMean-4) > 1e-9 {
		t.Errorf("speed mean %v depth mean %v, want 2 and 4", stats.SpeedMean, stats.DepthMean)
	}
	if stats.Pauses != 5 || stats.Resumes != 3 || stats.Arrivals != 7 {
		t.Errorf("transitions %d/%d/%d", stats.Pauses, stats.Resumes, stats.Arrivals)
	}
	if stats.AssetsLoaded != 1 || stats.AssetsFailed != 1 {
		t.Errorf("assets %d loaded %d failed", stats.AssetsLoaded, stats.AssetsFailed)
	}

	if len(species) != 2 || species[0].Species != "fish" || species[1].Species != "goldfish" {
		t.Fatalf("unexpected species rows %+v", species)
	}
	if species[0].Count != 2 || species[0].PausedFraction != 0.5 || species[0].SpeedMean != 2.5 {
		t.Errorf("fish row %+v", species[0])
	}

	// Second window reports deltas and starts clean
	totals.Pauses, totals.Arrivals = 6, 7
	stats, _ = c.Flush(20, 2, VesselSample{}, nil, totals)
	if stats.WindowStartTick != 10 || stats.Pauses != 1 || stats.Arrivals != 0 {
		t.Errorf("expected delta transitions from tick 10, got %+v", stats)
	}
	if stats.VesselSpeedMean != 0 || stats.BoundaryHits != 0 || stats.AssetsLoaded != 0 {
		t.Error("expected window counters reset after flush")
	}
}

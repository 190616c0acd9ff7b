package main

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/vessel"
)

// Trial timing, in simulated seconds.
const (
	accelSec     = 30.0
	maxCoastSec  = 60.0
	coastStopPct = 0.1 // Coast ends below this fraction of cruise speed
)

// Targets are the handling figures calibration aims for.
type Targets struct {
	CruiseSpeed float64 // Speed after holding full forward
	CoastTime   float64 // Seconds from cruise to coastStopPct of it
}

// Trial is the measured handling of one parameter set.
type Trial struct {
	CruiseSpeed float64
	CoastTime   float64
}

// FitnessEvaluator runs straight-line trials and scores them against targets.
type FitnessEvaluator struct {
	params  *ParamVector
	base    config.VesselConfig
	targets Targets
	dt      float64

	last Trial
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, base config.VesselConfig, targets Targets, dt float64) *FitnessEvaluator {
	return &FitnessEvaluator{params: params, base: base, targets: targets, dt: dt}
}

// LastTrial returns the measurements from the most recent Evaluate call.
func (fe *FitnessEvaluator) LastTrial() Trial { return fe.last }

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := fe.base
	fe.params.ApplyToConfig(&cfg, raw)
	fe.last = RunTrial(cfg, fe.dt)
	return Score(fe.last, fe.targets)
}

// RunTrial holds full forward until speed settles, then releases and times
// the coast. The trial runs in open water so the boundary never interferes.
func RunTrial(cfg config.VesselConfig, dt float64) Trial {
	world := config.WorldConfig{Boundary: math.MaxFloat32}
	v := vessel.New(cfg, world)
	forward := r2.Vec{Y: -1}

	for t := 0.0; t < accelSec; t += dt {
		v.ApplyMovementInput(forward, dt)
		v.Tick(dt)
	}
	tr := Trial{CruiseSpeed: v.Speed(), CoastTime: maxCoastSec}
	if tr.CruiseSpeed == 0 {
		tr.CoastTime = 0
		return tr
	}

	stop := tr.CruiseSpeed * coastStopPct
	for t := 0.0; t < maxCoastSec; t += dt {
		v.Tick(dt)
		if v.Speed() < stop {
			tr.CoastTime = t + dt
			break
		}
	}
	return tr
}

// Score is the summed squared relative error of a trial.
func Score(tr Trial, targets Targets) float64 {
	return relErr2(tr.CruiseSpeed, targets.CruiseSpeed) + relErr2(tr.CoastTime, targets.CoastTime)
}

func relErr2(got, want float64) float64 {
	if want == 0 {
		return got * got
	}
	e := (got - want) / want
	return e * e
}

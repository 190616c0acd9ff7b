package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/velamare/config"
)

func defaultVessel(t *testing.T) (config.VesselConfig, float64) {
	t.Helper()
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Vessel, cfg.World.DT
}

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{18, 0.985, 0.96}

	norm := pv.Normalize(raw)
	for i, v := range norm {
		if v < 0 || v > 1 {
			t.Errorf("param %s normalized out of range: %f", pv.Specs[i].Name, v)
		}
	}
	back := pv.Denormalize(norm)
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("param %s: expected %f, got %f", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	clamped := pv.Clamp([]float64{-5, 2, 0.9})
	want := []float64{4, 0.999, 0.9}
	for i := range want {
		if clamped[i] != want[i] {
			t.Errorf("clamp %s: expected %f, got %f", pv.Specs[i].Name, want[i], clamped[i])
		}
	}
}

func TestRunTrialDefaults(t *testing.T) {
	vc, dt := defaultVessel(t)
	tr := RunTrial(vc, dt)

	// Steady state of v = (v + a*dt) * d per frame
	d := vc.LinearDrag
	want := vc.ThrustForce * dt * d / (1 - d)
	if math.Abs(tr.CruiseSpeed-want) > 0.05*want {
		t.Errorf("expected cruise near %.2f, got %.2f", want, tr.CruiseSpeed)
	}

	wantCoast := math.Log(coastStopPct) / math.Log(d) / 60
	if math.Abs(tr.CoastTime-wantCoast) > 0.1 {
		t.Errorf("expected coast near %.2fs, got %.2fs", wantCoast, tr.CoastTime)
	}
}

func TestRunTrialDragOrdering(t *testing.T) {
	vc, dt := defaultVessel(t)
	loose := vc
	loose.LinearDrag = 0.99
	tight := vc
	tight.LinearDrag = 0.95

	a, b := RunTrial(loose, dt), RunTrial(tight, dt)
	if a.CruiseSpeed <= b.CruiseSpeed {
		t.Errorf("expected less drag to cruise faster: %.2f vs %.2f", a.CruiseSpeed, b.CruiseSpeed)
	}
	if a.CoastTime <= b.CoastTime {
		t.Errorf("expected less drag to coast longer: %.2f vs %.2f", a.CoastTime, b.CoastTime)
	}
}

func TestScore(t *testing.T) {
	targets := Targets{CruiseSpeed: 10, CoastTime: 2}
	if s := Score(Trial{CruiseSpeed: 10, CoastTime: 2}, targets); s != 0 {
		t.Errorf("expected zero at target, got %f", s)
	}
	if s := Score(Trial{CruiseSpeed: 11, CoastTime: 2}, targets); math.Abs(s-0.01) > 1e-12 {
		t.Errorf("expected 0.01 for 10%% cruise error, got %f", s)
	}
}

func TestEvaluateApproachesTargets(t *testing.T) {
	vc, dt := defaultVessel(t)
	pv := NewParamVector()
	targets := Targets{CruiseSpeed: 12, CoastTime: 4}
	fe := NewFitnessEvaluator(pv, vc, targets, dt)

	start := fe.Evaluate(pv.ExtractFromConfig(vc))
	// Lower thrust and less drag move both figures toward the targets
	better := fe.Evaluate([]float64{5, 0.99, vc.WakeDrag})
	if better >= start {
		t.Errorf("expected fitness to improve: %f -> %f", start, better)
	}
}

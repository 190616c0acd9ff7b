package main

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/velamare/config"
)

// ParamSpec defines a single calibrated parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of calibrated vessel parameters.
type ParamVector struct {
	Specs []ParamSpec
	mins  []float64
	spans []float64
}

// NewParamVector creates the standard set of vessel parameters.
func NewParamVector() *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "thrust_force", Path: "vessel.thrust_force", Min: 4, Max: 60},
			{Name: "linear_drag", Path: "vessel.linear_drag", Min: 0.9, Max: 0.999},
			{Name: "wake_drag", Path: "vessel.wake_drag", Min: 0.85, Max: 0.995},
		},
	}
	for _, s := range pv.Specs {
		pv.mins = append(pv.mins, s.Min)
		pv.spans = append(pv.spans, s.Max-s.Min)
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	floats.SubTo(out, raw, pv.mins)
	floats.Div(out, pv.spans)
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	floats.MulTo(out, normalized, pv.spans)
	floats.Add(out, pv.mins)
	return out
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = math.Min(spec.Max, math.Max(spec.Min, v[i]))
	}
	return out
}

// ApplyToConfig writes clamped values into the vessel config.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.VesselConfig, values []float64) {
	c := pv.Clamp(values)
	cfg.ThrustForce = c[0]
	cfg.LinearDrag = c[1]
	cfg.WakeDrag = c[2]
}

// ExtractFromConfig reads the current values from the vessel config.
func (pv *ParamVector) ExtractFromConfig(cfg config.VesselConfig) []float64 {
	return []float64{cfg.ThrustForce, cfg.LinearDrag, cfg.WakeDrag}
}

package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Vessel over the window
	VesselSpeedMean float64 `csv:"vessel_speed_mean"`
	VesselSpeedMax  float64 `csv:"vessel_speed_max"`
	VesselX         float64 `csv:"vessel_x"`
	VesselZ         float64 `csv:"vessel_z"`
	VesselHeading   float64 `csv:"vessel_heading"`
	BoundaryHits    int     `csv:"boundary_hits"`

	// Marine life at window end
	AgentCount     int     `csv:"agents"`
	ActiveSpecies  int     `csv:"active_species"`
	PausedFraction float64 `csv:"paused_fraction"`

	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	DepthMean float64 `csv:"depth_mean"`
	DepthP10  float64 `csv:"depth_p10"`
	DepthP50  float64 `csv:"depth_p50"`
	DepthP90  float64 `csv:"depth_p90"`

	// Transitions during window
	Pauses   int `csv:"pauses"`
	Resumes  int `csv:"resumes"`
	Arrivals int `csv:"arrivals"`

	// Asset loads completed during window
	AssetsLoaded int `csv:"assets_loaded"`
	AssetsFailed int `csv:"assets_failed"`
}

// SpeciesStats is one per-species row written alongside each window.
type SpeciesStats struct {
	WindowEndTick  int32   `csv:"window_end"`
	Species        string  `csv:"species"`
	Count          int     `csv:"count"`
	PausedFraction float64 `csv:"paused_fraction"`
	SpeedMean      float64 `csv:"speed_mean"`
	DepthMean      float64 `csv:"depth_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, population std, and percentiles.
// values is not modified.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// meanMax returns the mean and maximum of values, or zeros when empty.
func meanMax(values []float64) (mean, peak float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.Mean(values, nil), floats.Max(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("vessel_speed_mean", s.VesselSpeedMean),
		slog.Float64("vessel_speed_max", s.VesselSpeedMax),
		slog.Float64("vessel_x", s.VesselX),
		slog.Float64("vessel_z", s.VesselZ),
		slog.Float64("vessel_heading", s.VesselHeading),
		slog.Int("boundary_hits", s.BoundaryHits),
		slog.Int("agents", s.AgentCount),
		slog.Int("active_species", s.ActiveSpecies),
		slog.Float64("paused_fraction", s.PausedFraction),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("depth_mean", s.DepthMean),
		slog.Float64("depth_p10", s.DepthP10),
		slog.Float64("depth_p50", s.DepthP50),
		slog.Float64("depth_p90", s.DepthP90),
		slog.Int("pauses", s.Pauses),
		slog.Int("resumes", s.Resumes),
		slog.Int("arrivals", s.Arrivals),
		slog.Int("assets_loaded", s.AssetsLoaded),
		slog.Int("assets_failed", s.AssetsFailed),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"vessel_speed_mean", s.VesselSpeedMean,
		"vessel_heading", s.VesselHeading,
		"boundary_hits", s.BoundaryHits,
		"agents", s.AgentCount,
		"active_species", s.ActiveSpecies,
		"paused_fraction", s.PausedFraction,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"depth_mean", s.DepthMean,
		"pauses", s.Pauses,
		"resumes", s.Resumes,
		"arrivals", s.Arrivals,
	)
}

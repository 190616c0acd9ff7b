// Package config provides configuration loading and access for the ocean scene.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Vessel      VesselConfig      `yaml:"vessel"`
	Camera      CameraConfig      `yaml:"camera"`
	Species     []SpeciesConfig   `yaml:"species"`
	Assets      AssetsConfig      `yaml:"assets"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Autopilot   AutopilotConfig   `yaml:"autopilot"`
	Preferences PreferencesConfig `yaml:"preferences"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the shared spatial limits of the scene.
// The horizontal play area is the square [-Boundary, Boundary] on X and Z.
type WorldConfig struct {
	DT             float64 `yaml:"dt"`              // Fixed step used by headless runs
	Boundary       float64 `yaml:"boundary"`        // Half-extent of the horizontal square
	VesselPadding  float64 `yaml:"vessel_padding"`  // Vessel stays within Boundary - VesselPadding
	AgentPadding   float64 `yaml:"agent_padding"`   // Agents stay within Boundary - AgentPadding
	TargetMargin   float64 `yaml:"target_margin"`   // Wander targets stay within Boundary - TargetMargin
	WaterLevel     float64 `yaml:"water_level"`     // Height of the water surface
	SurfaceMargin  float64 `yaml:"surface_margin"`  // Wander targets stay this far below the surface
	SurfaceBuffer  float64 `yaml:"surface_buffer"`  // Default agent ceiling distance below the surface
	MaxDepth       float64 `yaml:"max_depth"`       // Deepest y any wander target may take
	GridDivisions  int     `yaml:"grid_divisions"`  // Spawn grid is GridDivisions x GridDivisions
	SpawnJitter    float64 `yaml:"spawn_jitter"`    // Fraction of a cell used for spawn jitter
	VerticalJitter float64 `yaml:"vertical_jitter"` // Max vertical offset of a wander target from its anchor
}

// VesselConfig holds the thrust model tuning.
// Drag multipliers are expressed per 1/60 s frame and rescaled by dt.
type VesselConfig struct {
	MaxSpeed        float64 `yaml:"max_speed"`
	ThrustForce     float64 `yaml:"thrust_force"`
	ReverseRatio    float64 `yaml:"reverse_ratio"` // Reverse thrust = ThrustForce * ReverseRatio
	TurnTorque      float64 `yaml:"turn_torque"`
	MaxAngularSpeed float64 `yaml:"max_angular_speed"`
	AngularDrag     float64 `yaml:"angular_drag"`
	LinearDrag      float64 `yaml:"linear_drag"`
	WakeDrag        float64 `yaml:"wake_drag"`      // Drag blended in above WakeThreshold
	WakeThreshold   float64 `yaml:"wake_threshold"` // Speed where wake resistance starts
	TurnFullSpeed   float64 `yaml:"turn_full_speed"`
	TurnMinEffect   float64 `yaml:"turn_min_effect"`
	MaxBank         float64 `yaml:"max_bank"`
	MaxPitch        float64 `yaml:"max_pitch"`
	TiltLerpRate    float64 `yaml:"tilt_lerp_rate"`
	FloatHeight     float64 `yaml:"float_height"`
	FloatAmplitude  float64 `yaml:"float_amplitude"`
	FloatFrequency  float64 `yaml:"float_frequency"`
	SwayRollAmp     float64 `yaml:"sway_roll_amp"`
	SwayPitchAmp    float64 `yaml:"sway_pitch_amp"`
}

// CameraConfig holds trailing camera parameters.
type CameraConfig struct {
	Offset       [3]float64 `yaml:"offset"`
	LookHeight   float64    `yaml:"look_height"`
	PositionRate float64    `yaml:"position_rate"` // Per 1/60 s lerp factor
	LookAtRate   float64    `yaml:"look_at_rate"`  // Per 1/60 s lerp factor
	SwayX        float64    `yaml:"sway_x"`
	SwayY        float64    `yaml:"sway_y"`
	FovY         float64    `yaml:"fov_y"`
}

// RangeConfig is a closed [min, max] interval.
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SpeciesConfig defines one marine species.
// Depth values are heights, so Depth.Min is the deepest point of the band.
type SpeciesConfig struct {
	ID                    string      `yaml:"id"`
	Asset                 string      `yaml:"asset"`
	Population            int         `yaml:"population"`
	Speed                 RangeConfig `yaml:"speed"`
	Scale                 float64     `yaml:"scale"`
	Depth                 RangeConfig `yaml:"depth"`
	Pause                 RangeConfig `yaml:"pause"`
	TargetChange          RangeConfig `yaml:"target_change"`
	RoamRadius            RangeConfig `yaml:"roam_radius"`
	Smoothing             RangeConfig `yaml:"smoothing"`
	RotationCorrection    [3]float64  `yaml:"rotation_correction"`
	CollisionRadius       float64     `yaml:"collision_radius"`
	InitialPauseChance    float64     `yaml:"initial_pause_chance"`
	PauseChance           float64     `yaml:"pause_chance"`
	PauseExitFraction     float64     `yaml:"pause_exit_fraction"`
	SeekThreshold         float64     `yaml:"seek_threshold"`
	ArrivalThreshold      float64     `yaml:"arrival_threshold"`
	DistanceRatioDivisor  float64     `yaml:"distance_ratio_divisor"`
	Liveliness            float64     `yaml:"liveliness"`
	VelocityGain          float64     `yaml:"velocity_gain"`
	ArrivalDamping        float64     `yaml:"arrival_damping"`
	PausedDamping         float64     `yaml:"paused_damping"`
	AvoidGainSeeking      float64     `yaml:"avoid_gain_seeking"`
	AvoidGainPaused       float64     `yaml:"avoid_gain_paused"`
	TurnRate              float64     `yaml:"turn_rate"`
	PhaseScale            float64     `yaml:"phase_scale"`
	BobAmplitude          float64     `yaml:"bob_amplitude"`
	WobbleAmplitude       float64     `yaml:"wobble_amplitude"`
	MinDistanceFromVessel float64     `yaml:"min_distance_from_vessel"`
	Ceiling               float64     `yaml:"ceiling"`
	Floor                 float64     `yaml:"floor"`
	CeilingRebound        float64     `yaml:"ceiling_rebound"`
	FloorRebound          float64     `yaml:"floor_rebound"`
}

// AssetsConfig locates model files.
type AssetsConfig struct {
	Dir    string `yaml:"dir"`
	Vessel string `yaml:"vessel"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// AutopilotSegment is one scripted input step for headless runs.
type AutopilotSegment struct {
	Duration float64 `yaml:"duration"`
	X        float64 `yaml:"x"`
	Z        float64 `yaml:"z"`
}

// AutopilotConfig drives the vessel when no keyboard is attached.
type AutopilotConfig struct {
	Loop     bool               `yaml:"loop"`
	Segments []AutopilotSegment `yaml:"segments"`
}

// PreferencesConfig locates the preference file.
type PreferencesConfig struct {
	Path string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32     float32        // Screen.Width as float32
	ScreenH32     float32        // Screen.Height as float32
	VesselLimit   float64        // Boundary - VesselPadding
	AgentLimit    float64        // Boundary - AgentPadding
	SurfaceLimit  float64        // WaterLevel - SurfaceMargin
	CellSize      float64        // Spawn grid cell edge
	TotalAgents   int            // Sum of species populations
	SpeciesIndex  map[string]int // id -> index into Species
	StatsWindowTk int32          // Stats window in ticks of World.DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated;
// a *ValidationError is returned for out-of-range values.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the embedded default configuration with derived values filled in.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.VesselLimit = c.World.Boundary - c.World.VesselPadding
	c.Derived.AgentLimit = c.World.Boundary - c.World.AgentPadding
	c.Derived.SurfaceLimit = c.World.WaterLevel - c.World.SurfaceMargin

	if c.World.GridDivisions > 0 {
		c.Derived.CellSize = 2 * c.World.Boundary / float64(c.World.GridDivisions)
	}

	// Species without explicit limits fall back to the world surface and depth
	for i := range c.Species {
		sp := &c.Species[i]
		if sp.Ceiling == 0 && sp.Floor == 0 {
			sp.Ceiling = c.World.WaterLevel - c.World.SurfaceBuffer
			sp.Floor = c.World.MaxDepth
		}
	}

	c.Derived.TotalAgents = 0
	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))
	for i, sp := range c.Species {
		c.Derived.SpeciesIndex[sp.ID] = i
		c.Derived.TotalAgents += sp.Population
	}

	c.Derived.StatsWindowTk = 1
	if c.World.DT > 0 {
		c.Derived.StatsWindowTk = int32(math.Max(1, math.Round(c.Telemetry.StatsWindow/c.World.DT)))
	}
}

// UnmarshalYAML fills the fields whose zero value is meaningful before
// decoding, so an omitted key takes the default while an explicit 0 is kept.
func (s *SpeciesConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain SpeciesConfig
	p := plain{
		PauseExitFraction: 1,
		PhaseScale:        1,
	}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = SpeciesConfig(p)
	return nil
}

// SpeciesByID returns the species with the given id.
func (c *Config) SpeciesByID(id string) (SpeciesConfig, bool) {
	i, ok := c.Derived.SpeciesIndex[id]
	if !ok {
		return SpeciesConfig{}, false
	}
	return c.Species[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

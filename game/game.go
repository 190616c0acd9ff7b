// Package game wires the vessel, camera, marine life and asset loading into
// one frame-driven scene. It has no window dependency; a frontend feeds it
// input and draws what it publishes.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/velamare/assets"
	"github.com/pthm-cable/velamare/camera"
	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/input"
	"github.com/pthm-cable/velamare/scene"
	"github.com/pthm-cable/velamare/systems"
	"github.com/pthm-cable/velamare/telemetry"
	"github.com/pthm-cable/velamare/vessel"
)

// maxFrameDT caps a single step so a stalled frame cannot launch the vessel.
const maxFrameDT = 0.1

// Options configures a new game.
type Options struct {
	Config *config.Config // nil uses config.Cfg()
	Seed   int64          // 0 uses the current time

	// Loader fetches models. nil uses a FileLoader rooted at Config.Assets.Dir.
	Loader assets.Loader
	// Sink receives poses each tick. nil uses a scene.Recorder.
	Sink scene.Sink
	// Intent drives the vessel. nil replays Config.Autopilot.
	Intent input.IntentSource
	// DarkModeTargets are extra components told about theme changes.
	DarkModeTargets []any
	// OnModel is called on the game's goroutine for every loaded model,
	// before the owning species activates.
	OnModel func(kind string, m *assets.Model)
	// Preferences persists the dark mode flag. nil uses Config.Preferences.Path.
	Preferences *config.PreferenceStore

	LogStats       bool
	StatsWindowSec float64 // 0 uses Config.Telemetry.StatsWindow
	OutputDir      string
	StatsCallback  func(telemetry.WindowStats)
}

// Load status of an entity kind's model.
const (
	StatusLoading = "loading"
	StatusActive  = "active"
	StatusFailed  = "failed"
)

// Game holds the complete scene state.
type Game struct {
	cfg  *config.Config
	seed int64

	world   *ecs.World
	vessel  *vessel.Controller
	camera  *camera.Follow
	marine  *systems.MarineSimulator
	tracker *assets.Tracker

	intent    input.IntentSource
	autopilot *input.Scripted
	sink      scene.Sink
	onModel   func(kind string, m *assets.Model)

	// Asset id -> entity kinds using it ("vessel" or a species id)
	assetKinds  map[string][]string
	status      map[string]string
	vesselModel *assets.Model

	darkMode    bool
	darkTargets []any
	prefs       *config.PreferenceStore

	tick     int32
	simTime  float64
	unloaded bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions builds the scene and starts loading every model.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	loader := opts.Loader
	if loader == nil {
		loader = assets.NewFileLoader(cfg.Assets.Dir)
	}

	sink := opts.Sink
	if sink == nil {
		sink = scene.NewRecorder()
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:           cfg,
		seed:          seed,
		world:         world,
		vessel:        vessel.New(cfg.Vessel, cfg.World),
		camera:        camera.New(cfg.Camera),
		marine:        systems.NewMarineSimulator(world, cfg.World, cfg.Species, rng),
		tracker:       assets.NewTracker(loader, len(cfg.Species)+1),
		intent:        opts.Intent,
		sink:          sink,
		onModel:       opts.OnModel,
		assetKinds:    make(map[string][]string),
		status:        make(map[string]string),
		prefs:         opts.Preferences,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	if g.intent == nil {
		g.autopilot = input.NewScripted(cfg.Autopilot)
		g.intent = g.autopilot
	}
	if g.prefs == nil {
		g.prefs = config.NewPreferenceStore(cfg.Preferences.Path)
	}

	windowSec := opts.StatsWindowSec
	if windowSec <= 0 {
		windowSec = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(windowSec, cfg.World.WaterLevel)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.tracker.Close()
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	// Targets that change with the theme; the vessel only switches its lights
	g.darkTargets = append([]any{g.vessel, g.sink}, opts.DarkModeTargets...)
	prefs, err := g.prefs.Load()
	if err != nil {
		slog.Warn("ignoring unreadable preferences", "path", g.prefs.Path(), "error", err)
	}
	g.applyDarkMode(prefs.DarkMode)

	g.requestAssets()
	g.publish()

	slog.Info("scene created",
		"seed", seed,
		"species", len(cfg.Species),
		"agents", cfg.Derived.TotalAgents,
		"dark_mode", g.darkMode,
	)
	return g, nil
}

// Step advances the scene by dt seconds. Non-finite or non-positive steps are
// skipped; long frames are capped.
func (g *Game) Step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	dt = math.Min(dt, maxFrameDT)

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseAssets)
	g.handleResults(g.tracker.Poll())

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	if g.autopilot != nil {
		g.autopilot.Advance(dt)
	}
	intent := g.intent.MovementVector()

	g.perfCollector.StartPhase(telemetry.PhaseVessel)
	g.vessel.ApplyMovementInput(intent, dt)
	g.vessel.Tick(dt)

	g.perfCollector.StartPhase(telemetry.PhaseCamera)
	g.camera.Tick(g.vessel.Position(), g.vessel.Orientation(), dt)

	g.perfCollector.StartPhase(telemetry.PhaseMarine)
	g.marine.SetVesselPosition(g.vessel.Position())
	g.marine.Tick(dt)

	g.perfCollector.StartPhase(telemetry.PhasePublish)
	g.publish()

	g.tick++
	g.simTime += dt

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if g.collector.RecordVessel(g.vessel.Speed(), g.vessel.AtBoundary()) {
		g.recordEvent(telemetry.NewBoundaryHitEvent(g.tick, boundaryAxis(g.vessel)))
	}
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// UpdateHeadless runs one fixed step of Config.World.DT.
func (g *Game) UpdateHeadless() {
	g.Step(g.cfg.World.DT)
}

func (g *Game) publish() {
	g.vessel.Publish(g.sink)
	g.marine.Publish(g.sink)
}

// boundaryAxis names the axis the vessel is pinned on.
func boundaryAxis(v *vessel.Controller) string {
	p := v.Position()
	if math.Abs(p.X) >= math.Abs(p.Z) {
		return "x"
	}
	return "z"
}

// SetDarkMode switches the theme on every dark-mode aware component and
// saves the preference.
func (g *Game) SetDarkMode(enabled bool) {
	if enabled == g.darkMode {
		return
	}
	g.applyDarkMode(enabled)
	if err := g.prefs.Save(config.Preferences{DarkMode: enabled}); err != nil {
		slog.Warn("failed to save preferences", "path", g.prefs.Path(), "error", err)
	}
	g.recordEvent(telemetry.NewDarkModeEvent(g.tick, enabled))
}

// ToggleDarkMode flips the theme and returns the new state.
func (g *Game) ToggleDarkMode() bool {
	g.SetDarkMode(!g.darkMode)
	return g.darkMode
}

func (g *Game) applyDarkMode(enabled bool) {
	g.darkMode = enabled
	scene.ApplyDarkMode(enabled, g.darkTargets...)
}

// DarkMode reports the current theme.
func (g *Game) DarkMode() bool { return g.darkMode }

// Unload tears down the scene: loads are cancelled, agents removed and
// output files closed. Calling it again does nothing.
func (g *Game) Unload() {
	if g.unloaded {
		return
	}
	g.unloaded = true
	g.tracker.Close()

	type forgetter interface{ Forget(kind string) }
	if f, ok := g.sink.(forgetter); ok {
		for _, id := range g.marine.SpeciesIDs() {
			f.Forget(id)
		}
	}
	g.marine.Teardown()

	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of steps taken.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns the scene time in seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Seed returns the seed the scene was built with.
func (g *Game) Seed() int64 { return g.seed }

// Config returns the scene configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Vessel returns the player's vessel.
func (g *Game) Vessel() *vessel.Controller { return g.vessel }

// Camera returns the follow camera.
func (g *Game) Camera() *camera.Follow { return g.camera }

// Marine returns the marine simulator.
func (g *Game) Marine() *systems.MarineSimulator { return g.marine }

// VesselModel returns the loaded vessel model, or nil while loading or after
// a failure.
func (g *Game) VesselModel() *assets.Model { return g.vesselModel }

// PerfStats returns frame timing over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// RecordFrame marks a rendered frame for FPS reporting.
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// OutputDir returns the telemetry directory, or "" when disabled.
func (g *Game) OutputDir() string { return g.outputManager.Dir() }

package game

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/assets"
	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/scene"
	"github.com/pthm-cable/velamare/systems"
	"github.com/pthm-cable/velamare/telemetry"
)

type testScene struct {
	game  *Game
	sink  *scene.Recorder
	prefs string
}

func newTestGame(t *testing.T, seed int64, loader assets.Loader, mutate func(o *Options)) testScene {
	t.Helper()
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	prefs := filepath.Join(t.TempDir(), "prefs.yaml")
	sink := scene.NewRecorder()
	opts := Options{
		Config:      cfg,
		Seed:        seed,
		Loader:      loader,
		Sink:        sink,
		Preferences: config.NewPreferenceStore(prefs),
	}
	if mutate != nil {
		mutate(&opts)
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Unload)
	return testScene{game: g, sink: sink, prefs: prefs}
}

func waitAssets(t *testing.T, g *Game) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.WaitForAssets(ctx); err != nil {
		t.Fatalf("waiting for assets: %v", err)
	}
}

func TestSpeciesActivateOnLoad(t *testing.T) {
	ts := newTestScene(t)
	g := ts.game

	if g.Marine().AgentCount() != 0 {
		t.Fatal("expected no agents before models load")
	}
	waitAssets(t, g)

	if g.VesselStatus() != StatusActive || g.VesselModel() == nil {
		t.Errorf("expected vessel model loaded, status %q", g.VesselStatus())
	}
	for _, sp := range g.Species() {
		want, _ := g.Config().SpeciesByID(sp.ID)
		if sp.Status != StatusActive || sp.Count != want.Population {
			t.Errorf("species %s: got %s with %d agents, want active with %d", sp.ID, sp.Status, sp.Count, want.Population)
		}
	}

	g.UpdateHeadless()
	if got := ts.sink.Count("goldfish"); got != 20 {
		t.Errorf("expected 20 goldfish poses published, got %d", got)
	}
	if _, ok := ts.sink.Pose(scene.VesselID); !ok {
		t.Error("expected vessel pose published")
	}
}

func newTestScene(t *testing.T) testScene {
	return newTestGame(t, 42, &assets.StaticLoader{}, nil)
}

func TestFailedSpeciesStaysInactive(t *testing.T) {
	ts := newTestGame(t, 7, &assets.StaticLoader{Fail: map[string]bool{"redfish.glb": true, "boat.glb": true}}, nil)
	g := ts.game
	waitAssets(t, g)

	for _, sp := range g.Species() {
		switch sp.ID {
		case "redfish":
			if sp.Status != StatusFailed || sp.Count != 0 {
				t.Errorf("expected redfish failed and empty, got %+v", sp)
			}
		default:
			if sp.Status != StatusActive {
				t.Errorf("expected %s active, got %s", sp.ID, sp.Status)
			}
		}
	}

	// The vessel simulates without its model
	if g.VesselStatus() != StatusFailed || g.VesselModel() != nil {
		t.Errorf("expected vessel model failed, got %q", g.VesselStatus())
	}
	start := g.Vessel().Position()
	for i := 0; i < 120; i++ {
		g.UpdateHeadless()
	}
	if r3.Norm(r3.Sub(g.Vessel().Position(), start)) == 0 {
		t.Error("expected the autopilot to move the vessel")
	}
	if ts.sink.Count("redfish") != 0 {
		t.Error("expected no redfish poses")
	}
}

func TestAssetsActivateDuringStep(t *testing.T) {
	ts := newTestGame(t, 3, &assets.StaticLoader{}, nil)
	g := ts.game

	deadline := time.Now().Add(5 * time.Second)
	for g.PendingLoads() > 0 && time.Now().Before(deadline) {
		g.UpdateHeadless()
		time.Sleep(time.Millisecond)
	}
	if g.PendingLoads() != 0 {
		t.Fatalf("loads still pending: %d", g.PendingLoads())
	}
	if got, want := g.Marine().AgentCount(), g.Config().Derived.TotalAgents; got != want {
		t.Errorf("expected %d agents after polling, got %d", want, got)
	}
}

func TestDarkModePersists(t *testing.T) {
	ts := newTestScene(t)
	g := ts.game

	if g.DarkMode() || g.Vessel().NavigationLights() {
		t.Fatal("expected day mode by default")
	}
	if !g.ToggleDarkMode() {
		t.Fatal("expected toggle to enable dark mode")
	}
	if !g.Vessel().NavigationLights() || !ts.sink.DarkMode() {
		t.Error("expected vessel lights and sink switched to night")
	}

	data, err := os.ReadFile(ts.prefs)
	if err != nil {
		t.Fatalf("expected preferences written: %v", err)
	}
	if !strings.Contains(string(data), "dark_mode: true") {
		t.Errorf("unexpected preferences %q", data)
	}

	// A new scene with the same store starts dark
	next := newTestGame(t, 42, &assets.StaticLoader{}, func(o *Options) {
		o.Preferences = config.NewPreferenceStore(ts.prefs)
	})
	if !next.game.DarkMode() || !next.game.Vessel().NavigationLights() {
		t.Error("expected stored dark mode applied at startup")
	}
}

type themeSpy struct{ calls []bool }

func (s *themeSpy) SetDarkMode(enabled bool) { s.calls = append(s.calls, enabled) }

func TestDarkModeTargets(t *testing.T) {
	spy := &themeSpy{}
	ts := newTestGame(t, 1, &assets.StaticLoader{}, func(o *Options) {
		o.DarkModeTargets = []any{spy, "not aware"}
	})
	g := ts.game

	g.SetDarkMode(true)
	g.SetDarkMode(true) // Unchanged, not forwarded
	g.SetDarkMode(false)

	want := []bool{false, true, false}
	if len(spy.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, spy.calls)
	}
	for i := range want {
		if spy.calls[i] != want[i] {
			t.Errorf("call %d: expected %v, got %v", i, want[i], spy.calls[i])
		}
	}
}

func agentSnapshot(g *Game) []systems.AgentView {
	var out []systems.AgentView
	g.Marine().ForEachAgent(func(a systems.AgentView) { out = append(out, a) })
	return out
}

func TestSameSeedSameScene(t *testing.T) {
	run := func() (*Game, []systems.AgentView) {
		ts := newTestGame(t, 99, &assets.StaticLoader{}, nil)
		waitAssets(t, ts.game)
		for i := 0; i < 300; i++ {
			ts.game.UpdateHeadless()
		}
		return ts.game, agentSnapshot(ts.game)
	}

	a, agentsA := run()
	b, agentsB := run()

	if a.Vessel().Position() != b.Vessel().Position() {
		t.Errorf("vessel diverged: %v vs %v", a.Vessel().Position(), b.Vessel().Position())
	}
	if len(agentsA) != len(agentsB) {
		t.Fatalf("agent counts differ: %d vs %d", len(agentsA), len(agentsB))
	}
	for i := range agentsA {
		if agentsA[i] != agentsB[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, agentsA[i], agentsB[i])
		}
	}
}

func TestStepSkipsInvalidDT(t *testing.T) {
	ts := newTestScene(t)
	g := ts.game

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		g.Step(dt)
	}
	if g.Tick() != 0 || g.SimTime() != 0 {
		t.Errorf("expected invalid steps skipped, tick %d time %f", g.Tick(), g.SimTime())
	}

	g.Step(5)
	if g.Tick() != 1 || math.Abs(g.SimTime()-maxFrameDT) > 1e-12 {
		t.Errorf("expected long frame capped at %f, got %f", maxFrameDT, g.SimTime())
	}
}

func TestUnloadClearsAgents(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	sink := scene.NewRecorder()
	g, err := NewGameWithOptions(Options{
		Config:      cfg,
		Seed:        5,
		Loader:      &assets.StaticLoader{},
		Sink:        sink,
		Preferences: config.NewPreferenceStore(""),
	})
	if err != nil {
		t.Fatal(err)
	}
	waitAssets(t, g)
	g.UpdateHeadless()

	q := ecs.NewFilter0(g.world).Query()
	before := q.Count()
	q.Close()
	if before == 0 {
		t.Fatal("expected agents in the world before unload")
	}

	g.Unload()
	if g.Marine().AgentCount() != 0 || len(g.Marine().ActiveSpecies()) != 0 {
		t.Error("expected all agents removed")
	}
	q = ecs.NewFilter0(g.world).Query()
	if n := q.Count(); n != 0 {
		t.Errorf("expected no live entities after unload, got %d", n)
	}
	q.Close()
	if got := sink.Kinds(); len(got) != 1 || got[0] != scene.VesselID.Kind {
		t.Errorf("expected only the vessel left in the sink, got %v", got)
	}
}

func TestTelemetryOutput(t *testing.T) {
	out := t.TempDir()
	var windows int
	ts := newTestGame(t, 11, &assets.StaticLoader{}, func(o *Options) {
		o.OutputDir = out
		o.StatsWindowSec = 0.5
		o.StatsCallback = func(s telemetry.WindowStats) { windows++ }
	})
	g := ts.game
	waitAssets(t, g)

	for i := 0; i < 90; i++ {
		g.UpdateHeadless()
	}
	if windows != 3 {
		t.Errorf("expected 3 stats windows, got %d", windows)
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "species.csv", "perf.csv", "events.csv"} {
		info, err := os.Stat(filepath.Join(out, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("expected %s to have content", name)
		}
	}
}

func TestTelemetryWindowUsesFrameTime(t *testing.T) {
	var got []telemetry.WindowStats
	ts := newTestGame(t, 13, &assets.StaticLoader{}, func(o *Options) {
		o.StatsWindowSec = 0.5
		o.StatsCallback = func(s telemetry.WindowStats) { got = append(got, s) }
	})
	g := ts.game
	waitAssets(t, g)

	// 30fps frames cover a second of scene time in 30 steps
	for i := 0; i < 30; i++ {
		g.Step(1.0 / 30)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 stats windows, got %d", len(got))
	}
	if math.Abs(got[1].SimTimeSec-g.SimTime()) > 1e-9 {
		t.Errorf("expected window end %v to match scene time %v", got[1].SimTimeSec, g.SimTime())
	}
	if got[0].WindowEndTick != 15 {
		t.Errorf("expected first window to close at tick 15, got %d", got[0].WindowEndTick)
	}
}

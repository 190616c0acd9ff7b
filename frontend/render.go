package frontend

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/velamare/ui"
)

// Draw renders the scene and the UI on top.
func (a *App) Draw() {
	g := a.game
	g.RecordFrame()

	position, lookAt := g.Camera().Pose()
	a.scene.SetCamera(position, lookAt)
	a.scene.SetNavigationLights(g.Vessel().NavigationLights())

	rl.BeginDrawing()
	a.scene.Draw(float32(g.SimTime()))

	if a.hud.Draw(a.hudData()) {
		g.ToggleDarkMode()
	}
	a.controls.Draw()
	if a.showPerf {
		a.perfPanel.Draw(g.PerfStats())
	}
	a.hud.DrawControls(a.screenWidth, a.screenHeight, "WASD steer | N night | H help | P perf")

	rl.EndDrawing()
}

func (a *App) hudData() ui.HUDData {
	g := a.game
	v := g.Vessel()
	cfg := g.Config()
	p := v.Position()

	species := g.Species()
	lines := make([]ui.SpeciesLine, len(species))
	for i, sp := range species {
		lines[i] = ui.SpeciesLine{ID: sp.ID, Count: sp.Count, Status: sp.Status}
	}

	return ui.HUDData{
		Title:        "VelaMare",
		Tick:         g.Tick(),
		FPS:          rl.GetFPS(),
		Speed:        v.Speed(),
		MaxSpeed:     cfg.Vessel.MaxSpeed,
		Heading:      v.Heading(),
		Banking:      v.Banking(),
		MaxBank:      cfg.Vessel.MaxBank,
		X:            p.X,
		Z:            p.Z,
		AtBoundary:   v.AtBoundary(),
		Agents:       g.Marine().AgentCount(),
		Species:      lines,
		DarkMode:     g.DarkMode(),
		ScreenWidth:  a.screenWidth,
		ScreenHeight: a.screenHeight,
	}
}

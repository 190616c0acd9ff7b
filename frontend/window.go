// Package frontend runs the scene in a raylib window: it polls the keyboard,
// steps the game once per frame and draws what the game publishes.
package frontend

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/velamare/assets"
	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/game"
	"github.com/pthm-cable/velamare/input"
	"github.com/pthm-cable/velamare/renderer"
	"github.com/pthm-cable/velamare/ui"
)

// keyBindings maps raylib keys to vessel controls.
var keyBindings = input.Bindings{
	rl.KeyW:     input.ActionForward,
	rl.KeyUp:    input.ActionForward,
	rl.KeyS:     input.ActionBackward,
	rl.KeyDown:  input.ActionBackward,
	rl.KeyA:     input.ActionLeft,
	rl.KeyLeft:  input.ActionLeft,
	rl.KeyD:     input.ActionRight,
	rl.KeyRight: input.ActionRight,
}

// App is a game attached to a window. The window must be open before New.
type App struct {
	game     *game.Game
	scene    *renderer.Scene
	keyboard *input.Keyboard

	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel
	showPerf  bool

	screenWidth  int32
	screenHeight int32
}

// New builds the renderer and UI, then the game wired to them. Fields of
// opts that the window provides (sink, intent, theme targets, model upload)
// are overwritten.
func New(cfg *config.Config, opts game.Options) (*App, error) {
	a := &App{
		scene:        renderer.NewScene(cfg),
		keyboard:     input.NewKeyboard(keyBindings),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(int32(cfg.Screen.Width)-230, 10),
		screenWidth:  int32(cfg.Screen.Width),
		screenHeight: int32(cfg.Screen.Height),
	}
	a.controls = ui.NewControlsPanel(a.screenWidth-250, a.screenHeight-240, 240, ui.DefaultBindings)
	a.controls.SetVisible(true)

	opts.Config = cfg
	opts.Sink = a.scene
	opts.Intent = a.keyboard
	opts.DarkModeTargets = append(opts.DarkModeTargets, a.hud, a.controls, a.perfPanel)
	opts.OnModel = func(kind string, m *assets.Model) {
		a.scene.UploadModel(kind, m)
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		a.scene.Unload()
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	a.game = g
	return a, nil
}

// Game returns the running game.
func (a *App) Game() *game.Game { return a.game }

// Update handles input and advances the game by the frame time.
func (a *App) Update() {
	a.handleInput()
	a.game.Step(float64(rl.GetFrameTime()))
}

// Unload releases the game and every GPU resource.
func (a *App) Unload() {
	a.game.Unload()
	a.scene.Unload()
}

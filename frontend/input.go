package frontend

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput forwards key events to the vessel keyboard and handles the
// window-level toggles.
func (a *App) handleInput() {
	// Focus loss swallows release events
	if !rl.IsWindowFocused() {
		a.keyboard.Blur()
		return
	}

	for key := range keyBindings {
		if rl.IsKeyPressed(key) {
			a.keyboard.Press(key)
		}
		if rl.IsKeyReleased(key) {
			a.keyboard.Release(key)
		}
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.game.ToggleDarkMode()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.showPerf = !a.showPerf
	}
}

package ui

import (
	"fmt"
	"math"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/velamare/telemetry"
)

// SpeciesLine is one row of the species list.
type SpeciesLine struct {
	ID     string
	Count  int
	Status string // "active", "loading" or "failed"
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	FPS          int32
	Speed        float64
	MaxSpeed     float64
	Heading      float64
	Banking      float64
	MaxBank      float64
	X, Z         float64
	AtBoundary   bool
	Agents       int
	Species      []SpeciesLine
	DarkMode     bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display. It implements scene.DarkModeAware.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// SetDarkMode swaps the HUD theme.
func (h *HUD) SetDarkMode(enabled bool) {
	if enabled {
		h.renderer.Theme = DarkTheme()
	} else {
		h.renderer.Theme = DefaultTheme()
	}
}

const hudWidth = 260

// Draw renders the HUD and reports whether the dark mode button was pressed.
func (h *HUD) Draw(data HUDData) (toggleDark bool) {
	r := h.renderer
	th := r.Theme
	x := int32(10)
	y := int32(10)
	inner := int32(hudWidth) - th.Padding*2

	height := th.LineHeight*8 + th.Padding*2 + 40 + int32(len(data.Species))*th.LineHeight
	r.DrawPanel(x, y, hudWidth, height)

	cx := x + th.Padding
	cy := y + th.Padding
	rl.DrawText(data.Title, cx, cy, 20, th.Title)
	cy += 26

	rl.DrawText(fmt.Sprintf("Tick: %d | FPS: %d", data.Tick, data.FPS), cx, cy, th.FontSize, th.MutedColor)
	cy += th.LineHeight + 4

	cy = r.DrawSectionHeader(cx, cy, "Vessel")
	speedRatio := float32(0)
	if data.MaxSpeed > 0 {
		speedRatio = float32(data.Speed / data.MaxSpeed)
	}
	cy = r.DrawBar(cx, cy, "Speed", speedRatio, inner)
	cy = r.DrawCenteredBar(cx, cy, "Bank", float32(data.Banking), float32(data.MaxBank), inner)
	heading := math.Mod(data.Heading*180/math.Pi, 360)
	if heading < 0 {
		heading += 360
	}
	pos := fmt.Sprintf("%.0f deg  (%.1f, %.1f)", heading, data.X, data.Z)
	if data.AtBoundary {
		pos += " edge"
	}
	cy = r.DrawLabelValue(cx, cy, "Heading", pos)
	cy += 4

	cy = r.DrawSectionHeader(cx, cy, fmt.Sprintf("Marine life (%d)", data.Agents))
	for _, sp := range data.Species {
		value := fmt.Sprintf("%d", sp.Count)
		if sp.Status != "active" {
			value = sp.Status
		}
		cy = r.DrawLabelValue(cx, cy, sp.ID, value)
	}
	cy += 6

	label := "Night mode: off"
	if data.DarkMode {
		label = "Night mode: on"
	}
	return gui.Button(rl.Rectangle{X: float32(cx), Y: float32(cy), Width: float32(inner), Height: 24}, label)
}

// DrawControls renders the control hint at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.MutedColor)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// SetDarkMode swaps the panel theme.
func (p *PerfPanel) SetDarkMode(enabled bool) {
	if enabled {
		p.renderer.Theme = DarkTheme()
	} else {
		p.renderer.Theme = DefaultTheme()
	}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	th := p.renderer.Theme
	phases := telemetry.PhaseOrder()
	height := int32(len(phases)+2)*14 + 20 + th.Padding*2
	p.renderer.DrawPanel(p.x, p.y, 220, height)

	x := p.x + th.Padding
	y := p.y + th.Padding
	rl.DrawText("Frame Phases", x, y, 16, th.Title)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (p95 %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond)), x, y, 12, th.ValueColor)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := th.LabelColor
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %6s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

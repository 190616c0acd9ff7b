// Vessel tuner - drive the boat from above while adjusting its handling.
//
// Usage: go run ./cmd/tuner [-config path]
package main

import (
	"flag"
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/input"
	"github.com/pthm-cable/velamare/vessel"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 680
	panelWidth   = windowWidth - previewSize - 30
	trailLength  = 600
)

// slider is one tunable vessel field.
type slider struct {
	label    string
	min, max float32
	format   string
	field    func(c *config.VesselConfig) *float64
}

var sliders = []slider{
	{"Max speed", 5, 60, "%.1f", func(c *config.VesselConfig) *float64 { return &c.MaxSpeed }},
	{"Thrust force", 2, 60, "%.1f", func(c *config.VesselConfig) *float64 { return &c.ThrustForce }},
	{"Reverse ratio", 0.1, 1, "%.2f", func(c *config.VesselConfig) *float64 { return &c.ReverseRatio }},
	{"Linear drag (per frame)", 0.9, 0.999, "%.3f", func(c *config.VesselConfig) *float64 { return &c.LinearDrag }},
	{"Wake drag (per frame)", 0.85, 0.999, "%.3f", func(c *config.VesselConfig) *float64 { return &c.WakeDrag }},
	{"Turn torque", 0.5, 6, "%.2f", func(c *config.VesselConfig) *float64 { return &c.TurnTorque }},
	{"Max angular speed", 0.2, 3, "%.2f", func(c *config.VesselConfig) *float64 { return &c.MaxAngularSpeed }},
	{"Angular drag (per frame)", 0.8, 0.999, "%.3f", func(c *config.VesselConfig) *float64 { return &c.AngularDrag }},
	{"Max bank", 0, 0.6, "%.2f", func(c *config.VesselConfig) *float64 { return &c.MaxBank }},
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	initial := cfg.Vessel
	params := cfg.Vessel

	rl.InitWindow(windowWidth, windowHeight, "Vessel Tuner")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	keyboard := input.NewKeyboard(input.Bindings{
		rl.KeyW: input.ActionForward,
		rl.KeyS: input.ActionBackward,
		rl.KeyA: input.ActionLeft,
		rl.KeyD: input.ActionRight,
	})
	boat := vessel.New(params, cfg.World)
	trail := make([]r3.Vec, 0, trailLength)
	limit := float32(cfg.Derived.VesselLimit)

	for !rl.WindowShouldClose() {
		for _, key := range []int32{rl.KeyW, rl.KeyS, rl.KeyA, rl.KeyD} {
			if rl.IsKeyPressed(key) {
				keyboard.Press(key)
			}
			if rl.IsKeyReleased(key) {
				keyboard.Release(key)
			}
		}

		dt := float64(rl.GetFrameTime())
		boat.ApplyMovementInput(keyboard.MovementVector(), dt)
		boat.Tick(dt)

		if len(trail) == trailLength {
			copy(trail, trail[1:])
			trail = trail[:trailLength-1]
		}
		trail = append(trail, boat.Position())

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Top-down view of the play area, -Z up
		scale := float32(previewSize) / (2 * limit)
		toScreen := func(p r3.Vec) rl.Vector2 {
			return rl.Vector2{
				X: 10 + (float32(p.X)+limit)*scale,
				Y: 10 + (float32(p.Z)+limit)*scale,
			}
		}
		rl.DrawRectangle(10, 10, previewSize, previewSize, rl.NewColor(20, 60, 110, 255))
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		for i := 1; i < len(trail); i++ {
			rl.DrawLineV(toScreen(trail[i-1]), toScreen(trail[i]), rl.NewColor(200, 230, 255, 160))
		}
		pos := toScreen(boat.Position())
		fwd := boat.Forward()
		bow := rl.Vector2{X: pos.X + float32(fwd.X)*12, Y: pos.Y + float32(fwd.Z)*12}
		rl.DrawCircleV(pos, 5, rl.Orange)
		rl.DrawLineEx(pos, bow, 2, rl.Orange)

		statsY := int32(previewSize + 20)
		rl.DrawText(fmt.Sprintf("Speed: %.2f  Heading: %.2f  Bank: %.3f  Edge: %v",
			boat.Speed(), boat.Heading(), boat.Banking(), boat.AtBoundary()), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Vessel Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		for _, s := range sliders {
			field := s.field(&params)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf(s.format, s.min), fmt.Sprintf(s.format, s.max),
				float32(*field), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *field), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v != float32(*field) {
				*field = float64(v)
				changed = true
			}
			panelY += 32
		}
		if changed {
			boat.SetConfig(params)
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset Boat") {
			boat = vessel.New(params, cfg.World)
			trail = trail[:0]
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = initial
			boat = vessel.New(params, cfg.World)
			trail = trail[:0]
		}
		panelY += 45

		rl.DrawText("WASD to drive. Press C to copy YAML to clipboard", int32(panelX), int32(panelY), 12, rl.Gray)

		if rl.IsKeyPressed(rl.KeyC) {
			out, err := yaml.Marshal(map[string]config.VesselConfig{"vessel": params})
			if err != nil {
				log.Printf("failed to marshal vessel config: %v", err)
			} else {
				rl.SetClipboardText(string(out))
			}
		}

		rl.EndDrawing()
	}
}

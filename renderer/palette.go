package renderer

import "image/color"

// Palette holds every colour that changes between day and night.
type Palette struct {
	Zenith  color.RGBA
	Horizon color.RGBA
	Fog     color.RGBA
	Water   color.RGBA
	Light   color.RGBA // Tint applied to loaded models
	Hull    color.RGBA
	Deck    color.RGBA
}

var (
	// DayPalette is the default bright scene.
	DayPalette = Palette{
		Zenith:  color.RGBA{R: 96, G: 165, B: 230, A: 255},
		Horizon: color.RGBA{R: 200, G: 226, B: 240, A: 255},
		Fog:     color.RGBA{R: 178, G: 210, B: 228, A: 255},
		Water:   color.RGBA{R: 24, G: 110, B: 160, A: 170},
		Light:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Hull:    color.RGBA{R: 236, G: 232, B: 220, A: 255},
		Deck:    color.RGBA{R: 150, G: 105, B: 70, A: 255},
	}

	// NightPalette is used in dark mode.
	NightPalette = Palette{
		Zenith:  color.RGBA{R: 6, G: 10, B: 28, A: 255},
		Horizon: color.RGBA{R: 26, G: 36, B: 68, A: 255},
		Fog:     color.RGBA{R: 18, G: 26, B: 48, A: 255},
		Water:   color.RGBA{R: 8, G: 30, B: 58, A: 190},
		Light:   color.RGBA{R: 130, G: 145, B: 190, A: 255},
		Hull:    color.RGBA{R: 120, G: 124, B: 140, A: 255},
		Deck:    color.RGBA{R: 70, G: 52, B: 40, A: 255},
	}
)

// speciesColors tints placeholder agents when a species has no mesh.
var speciesColors = map[string]color.RGBA{
	"fish":     {R: 176, G: 190, B: 200, A: 255},
	"goldfish": {R: 240, G: 170, B: 40, A: 255},
	"redfish":  {R: 200, G: 50, B: 45, A: 255},
}

var defaultAgentColor = color.RGBA{R: 230, G: 120, B: 60, A: 255}

// shade scales the RGB channels of c by f, keeping alpha.
func shade(c color.RGBA, f float64) color.RGBA {
	ch := func(v uint8) uint8 {
		x := float64(v) * f
		if x > 255 {
			return 255
		}
		return uint8(x)
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}

// normalized returns c as three floats in [0, 1] for shader uniforms.
func normalized(c color.RGBA) []float32 {
	return []float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

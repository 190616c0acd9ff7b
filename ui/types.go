// Package ui draws the 2D overlay on top of the ocean scene.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	Title           rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	MutedColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the daytime UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 245, G: 248, B: 250, A: 220},
		PanelBorder:     rl.Color{R: 120, G: 150, B: 170, A: 255},
		Title:           rl.Color{R: 20, G: 50, B: 80, A: 255},
		SectionHeader:   rl.Color{R: 30, G: 100, B: 150, A: 255},
		LabelColor:      rl.Color{R: 60, G: 70, B: 80, A: 255},
		ValueColor:      rl.Color{R: 20, G: 30, B: 40, A: 255},
		MutedColor:      rl.Color{R: 110, G: 120, B: 130, A: 255},
		BarBg:           rl.Color{R: 210, G: 220, B: 228, A: 255},
		BarFill:         rl.Color{R: 40, G: 120, B: 190, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 90, B: 80, A: 255},
		BarFillPositive: rl.Color{R: 70, G: 160, B: 90, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}

// DarkTheme returns the night UI theme.
func DarkTheme() Theme {
	t := DefaultTheme()
	t.PanelBg = rl.Color{R: 20, G: 25, B: 30, A: 230}
	t.PanelBorder = rl.Color{R: 60, G: 70, B: 80, A: 255}
	t.Title = rl.White
	t.SectionHeader = rl.Yellow
	t.LabelColor = rl.LightGray
	t.ValueColor = rl.LightGray
	t.MutedColor = rl.Gray
	t.BarBg = rl.Color{R: 40, G: 40, B: 40, A: 255}
	t.BarFill = rl.Color{R: 100, G: 150, B: 200, A: 255}
	return t
}

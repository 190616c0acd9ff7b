package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// KeyBinding is one line of the controls panel.
type KeyBinding struct {
	Keys   string
	Action string
}

// DefaultBindings lists the scene's controls.
var DefaultBindings = []KeyBinding{
	{"W / Up", "Forward"},
	{"S / Down", "Reverse"},
	{"A / Left", "Turn left"},
	{"D / Right", "Turn right"},
	{"N", "Night mode"},
	{"H", "Show or hide this panel"},
	{"P", "Performance panel"},
	{"Esc", "Quit"},
}

// ControlsPanel renders the key bindings panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	bindings []KeyBinding
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32, bindings []KeyBinding) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		bindings: bindings,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// SetDarkMode swaps the panel theme.
func (c *ControlsPanel) SetDarkMode(enabled bool) {
	if enabled {
		c.renderer.Theme = DarkTheme()
	} else {
		c.renderer.Theme = DefaultTheme()
	}
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw() {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := int32(len(c.bindings))*lineHeight + padding*2 + lineHeight + 4
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, r.Theme.Title)
	y += lineHeight + 4

	keyCol := c.x + padding
	actionCol := keyCol + 90
	for _, b := range c.bindings {
		rl.DrawText(b.Keys, keyCol, y, r.Theme.FontSize, r.Theme.SectionHeader)
		rl.DrawText(b.Action, actionCol, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += lineHeight
	}
}

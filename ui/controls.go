package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists every registered overlay under its category (the
// display layers HUD, toolbar, brush outline and lattice grid, then the debug
// layers particle states, velocity, cell inspector and frame phases) with its
// key binding. Rows are clickable and toggle the overlay like the key does.
// The panel is opened with O and starts hidden.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// ControlRow is one line of the panel: a category header or an overlay toggle.
type ControlRow struct {
	Bounds  rl.Rectangle
	Header  string    // set for category headers
	Overlay OverlayID // set for toggles
}

const controlsTitleHeight = 20

func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

func (c *ControlsPanel) SetVisible(visible bool) { c.visible = visible }
func (c *ControlsPanel) IsVisible() bool         { return c.visible }

// SetPosition moves the panel; the game places it below the HUD.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// Toggle flips visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Layout returns the panel rows top to bottom in registry order.
func (c *ControlsPanel) Layout(overlays *OverlayRegistry) []ControlRow {
	pad := c.renderer.Theme.Padding
	line := float32(c.renderer.Theme.LineHeight)
	x := float32(c.x + pad)
	w := float32(c.width - 2*pad)
	y := float32(c.y+pad) + controlsTitleHeight

	var rows []ControlRow
	for _, cat := range overlays.Categories() {
		rows = append(rows, ControlRow{
			Bounds: rl.Rectangle{X: x, Y: y, Width: w, Height: line},
			Header: categoryLabel(cat),
		})
		y += line
		for _, desc := range overlays.ByCategory(cat) {
			rows = append(rows, ControlRow{
				Bounds:  rl.Rectangle{X: x, Y: y, Width: w, Height: line},
				Overlay: desc.ID,
			})
			y += line
		}
		y += 4
	}
	return rows
}

// Bounds is the panel rectangle for the current overlay set.
func (c *ControlsPanel) Bounds(overlays *OverlayRegistry) rl.Rectangle {
	rows := c.Layout(overlays)
	bottom := float32(c.y + c.renderer.Theme.Padding + controlsTitleHeight)
	if len(rows) > 0 {
		last := rows[len(rows)-1].Bounds
		bottom = last.Y + last.Height
	}
	return rl.Rectangle{
		X:      float32(c.x),
		Y:      float32(c.y),
		Width:  float32(c.width),
		Height: bottom + float32(c.renderer.Theme.Padding) - float32(c.y),
	}
}

// Captured reports whether p falls on the open panel, so a click there does
// not paint the lattice underneath.
func (c *ControlsPanel) Captured(p rl.Vector2, overlays *OverlayRegistry) bool {
	return c.visible && contains(c.Bounds(overlays), p)
}

// ToggleAt flips the overlay whose row contains p. ok is false when p is not
// on a toggle row or the panel is hidden.
func (c *ControlsPanel) ToggleAt(p rl.Vector2, overlays *OverlayRegistry) (id OverlayID, enabled, ok bool) {
	if !c.visible {
		return "", false, false
	}
	for _, row := range c.Layout(overlays) {
		if row.Overlay != "" && contains(row.Bounds, p) {
			return row.Overlay, overlays.Toggle(row.Overlay), true
		}
	}
	return "", false, false
}

// Draw renders the panel and returns the y just below it. A left click on a
// row toggles that overlay.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		c.ToggleAt(rl.GetMousePosition(), overlays)
	}

	r := c.renderer
	b := c.Bounds(overlays)
	r.DrawPanel(c.x, c.y, c.width, int32(b.Height))
	rl.DrawText("Overlays [O]", c.x+r.Theme.Padding, c.y+r.Theme.Padding, 16, rl.White)

	for _, row := range c.Layout(overlays) {
		x, y := int32(row.Bounds.X), int32(row.Bounds.Y)
		if row.Header != "" {
			rl.DrawText(row.Header, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
			continue
		}
		desc, _ := overlays.Get(row.Overlay)
		c.drawToggle(x, y, desc, overlays.IsEnabled(row.Overlay), int32(row.Bounds.Width))
	}
	return int32(b.Y + b.Height)
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	box := rl.Color{R: 80, G: 80, B: 80, A: 255}
	name := r.Theme.LabelColor
	if enabled {
		box = rl.Color{R: 100, G: 200, B: 100, A: 255}
		name = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, box)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, name)

	if desc.KeyLabel != "" {
		key := fmt.Sprintf("[%s]", desc.KeyLabel)
		rl.DrawText(key, x+width-rl.MeasureText(key, r.Theme.FontSize), y, r.Theme.FontSize, rl.Gray)
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "display":
		return "Display"
	case "debug":
		return "Debug"
	}
	return cat
}

func contains(b rl.Rectangle, p rl.Vector2) bool {
	return p.X >= b.X && p.Y >= b.Y && p.X < b.X+b.Width && p.Y < b.Y+b.Height
}

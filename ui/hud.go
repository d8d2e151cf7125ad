package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Tick          uint64
	Particles     int
	Falling       int
	Resting       int
	Removed       int
	Material      string
	MaterialColor rl.Color
	Brush         int
	Cursor        string
	FPS           int32
	Paused        bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: 220}
}

// SetPosition updates the HUD anchor.
func (h *HUD) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

// Height is the panel height the HUD occupies.
func (h *HUD) Height() int32 {
	t := h.renderer.Theme
	return t.Padding*2 + 20 + t.LineHeight*7
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	t := r.Theme
	r.DrawPanel(h.x, h.y, h.width, h.Height())

	x := h.x + t.Padding
	y := h.y + t.Padding
	rl.DrawText(data.Title, x, y, 18, rl.White)
	y += 20

	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", data.Particles))
	y = r.DrawLabelValue(x, y, "Moving", fmt.Sprintf("%d falling, %d resting", data.Falling, data.Resting))
	y = r.DrawLabelValue(x, y, "Removed", fmt.Sprintf("%d", data.Removed))
	y = r.DrawColorSwatch(x, y, "Material", data.MaterialColor)
	rl.DrawText(fmt.Sprintf("%s  r=%d", data.Material, data.Brush), x+t.LabelWidth+18, y-t.LineHeight, t.FontSize, t.ValueColor)
	y = r.DrawLabelValue(x, y, "Cursor", data.Cursor)

	status := fmt.Sprintf("FPS %d", data.FPS)
	color := t.LabelColor
	if data.Paused {
		status += "  PAUSED"
		color = t.Highlight
	}
	rl.DrawText(status, x, y, t.FontSize, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes map[string]time.Duration
	Total      time.Duration
	TicksPerS  float64
}

// PerfPanel renders the main loop phase timings.
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

// Draw renders the performance panel with phases listed in the given order.
func (p *PerfPanel) Draw(data PerfPanelData, names []string) {
	r := p.renderer
	width := int32(240)
	height := int32(60 + 18*len(names))
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s  (%.0f ticks/s)", data.Total.Round(time.Microsecond), data.TicksPerS), x, y, 12, rl.Yellow)
	y += 18

	for _, name := range names {
		avg := data.PhaseTimes[name]
		pct := float32(0)
		if data.Total > 0 {
			pct = float32(avg) / float32(data.Total)
		}
		y = r.DrawBar(x, y, name, pct, width-2*r.Theme.Padding)
	}
}

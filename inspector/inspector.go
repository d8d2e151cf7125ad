// Package inspector shows the particle occupying a lattice cell. Fields are
// discovered by reflection from `inspect` struct tags so new component
// fields show up without touching the panel.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandfall/camera"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/systems"
	"github.com/pthm-cable/sandfall/vmath"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
	sectionGap   = 28
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorPinned      = rl.Color{R: 255, G: 200, B: 60, A: 255}
	ColorHover       = rl.Color{R: 255, G: 255, B: 255, A: 180}
)

// Report is what the inspector knows about one cell.
type Report struct {
	Cell     vmath.Cell
	InBounds bool
	Occupied bool
	Entity   ecs.Entity
	Material *materials.Material

	ParticleFields []Field
	MaterialFields []Field
}

// Inspect reads the particle at cell, if any.
func Inspect(grid *systems.OccupancyGrid, cell vmath.Cell) Report {
	r := Report{Cell: cell, InBounds: grid.InBounds(cell)}
	if !r.InBounds {
		return r
	}
	e, ok := grid.Occupant(cell)
	if !ok {
		return r
	}
	p := grid.Particle(e)
	if p == nil {
		return r
	}
	r.Occupied = true
	r.Entity = e
	r.Material = p.Material
	r.ParticleFields = ExtractFields(p)
	r.MaterialFields = ExtractFields(p.Material)
	return r
}

// Lines renders the report as plain text, one field per line.
func (r Report) Lines() []string {
	if !r.InBounds {
		return []string{fmt.Sprintf("Cell %s: outside lattice", r.Cell)}
	}
	if !r.Occupied {
		return []string{fmt.Sprintf("Cell %s: empty", r.Cell)}
	}
	lines := []string{fmt.Sprintf("Cell %s: %s", r.Cell, r.Material.Name)}
	for _, f := range r.ParticleFields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Name, FormatValue(f.Value, f.Options["fmt"])))
	}
	for _, f := range r.MaterialFields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Name, FormatValue(f.Value, f.Options["fmt"])))
	}
	return lines
}

// Inspector tracks the inspected cell and draws its panel. The cell follows
// the cursor until it is pinned.
type Inspector struct {
	cell   vmath.Cell
	has    bool
	pinned bool

	panelX int32
	panelY int32
}

// NewInspector creates an inspector whose panel sits at the right edge of
// the screen.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth)
	return ins
}

// Resize repositions the panel for a new screen width.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Track follows the cursor cell unless a cell is pinned.
func (ins *Inspector) Track(cell vmath.Cell, inside bool) {
	if ins.pinned {
		return
	}
	ins.cell = cell
	ins.has = inside
}

// TogglePin pins cell, or unpins when it is already the pinned cell.
func (ins *Inspector) TogglePin(cell vmath.Cell) {
	if ins.pinned && ins.cell == cell {
		ins.pinned = false
		return
	}
	ins.cell = cell
	ins.has = true
	ins.pinned = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.has = false
	ins.pinned = false
}

// Selected returns the inspected cell.
func (ins *Inspector) Selected() (vmath.Cell, bool) {
	return ins.cell, ins.has
}

// Pinned reports whether the selection is pinned.
func (ins *Inspector) Pinned() bool {
	return ins.pinned
}

// Draw renders the inspector panel for a report.
func (ins *Inspector) Draw(r Report) {
	if !ins.has {
		return
	}

	panelHeight := ins.calculatePanelHeight(r)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	title := "INSPECTOR"
	if ins.pinned {
		title += " (pinned)"
	}
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	if !r.Occupied {
		rl.DrawText(r.Lines()[0], x, y, 14, ColorLabelDim)
		return
	}

	rl.DrawRectangle(x, y+1, 14, 14, r.Material.Color)
	rl.DrawText(fmt.Sprintf("Cell %s  %s", r.Cell, r.Material.Name), x+20, y, 14, ColorHeaderText)
	y += 22

	ins.drawSectionHeader(x, y, "PARTICLE")
	y += 20
	for _, f := range r.ParticleFields {
		y += DrawField(x, y, f)
	}

	y += 8
	ins.drawSectionHeader(x, y, "MATERIAL")
	y += 20
	for _, f := range r.MaterialFields {
		y += DrawField(x, y, f)
	}
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// calculatePanelHeight computes the dynamic panel height.
func (ins *Inspector) calculatePanelHeight(r Report) int32 {
	height := int32(HeaderHeight + PanelPadding)
	if !r.Occupied {
		return height + 20 + PanelPadding
	}
	height += 22 // cell line
	height += 20 // particle header
	for _, f := range r.ParticleFields {
		height += FieldHeight(f)
	}
	height += sectionGap
	for _, f := range r.MaterialFields {
		height += FieldHeight(f)
	}
	return height + PanelPadding
}

// DrawSelectionHighlight outlines the inspected cell on the lattice.
func (ins *Inspector) DrawSelectionHighlight(cam *camera.Camera) {
	if !ins.has {
		return
	}
	x, y, w, h := cam.CellRect(ins.cell)
	color := ColorHover
	if ins.pinned {
		color = ColorPinned
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x - 1, Y: y - 1, Width: w + 2, Height: h + 2}, 2, color)
}

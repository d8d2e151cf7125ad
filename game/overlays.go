package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandfall/components"
	"github.com/pthm-cable/sandfall/ui"
	"github.com/pthm-cable/sandfall/vmath"
)

// Grid lines are only drawn once cells are this many pixels wide.
const minGridZoom = 6

// State tints for the particle state overlay.
var stateTints = map[components.State]rl.Color{
	components.StateFalling: {R: 80, G: 160, B: 255, A: 110},
	components.StateSliding: {R: 255, G: 160, B: 60, A: 110},
	components.StateResting: {R: 90, G: 220, B: 120, A: 60},
}

// drawActiveOverlays draws the enabled lattice overlays.
func (g *Game) drawActiveOverlays() {
	gfx := g.gfx
	if gfx.overlays.IsEnabled(ui.OverlayGrid) {
		g.drawLatticeGrid()
	}
	if gfx.overlays.IsEnabled(ui.OverlayStates) {
		g.drawParticleStates()
	}
	if gfx.overlays.IsEnabled(ui.OverlayVelocity) {
		g.drawVelocities()
	}
	if gfx.overlays.IsEnabled(ui.OverlayBrush) {
		g.drawBrush()
	}
	if g.paused {
		g.drawHint(pausedHint(g.Tick()))
	}
}

// visibleCells returns the inclusive cell range on screen.
func (g *Game) visibleCells() (c0, r0, c1, r1 int) {
	grid := g.sim.Grid()
	minX, minY, maxX, maxY := g.gfx.cam.VisibleWorldBounds()
	c0 = max(int(minX), 0)
	r0 = max(int(minY), 0)
	c1 = min(int(maxX)+1, grid.Width()-1)
	r1 = min(int(maxY)+1, grid.Height()-1)
	return c0, r0, c1, r1
}

func (g *Game) drawLatticeGrid() {
	cam := g.gfx.cam
	if cam.Zoom < minGridZoom {
		return
	}
	c0, r0, c1, r1 := g.visibleCells()
	lineColor := rl.Color{R: 255, G: 255, B: 255, A: 20}

	_, top := cam.WorldToScreen(0, float32(r0))
	_, bottom := cam.WorldToScreen(0, float32(r1+1))
	for c := c0; c <= c1+1; c++ {
		x, _ := cam.WorldToScreen(float32(c), 0)
		rl.DrawLine(int32(x), int32(top), int32(x), int32(bottom), lineColor)
	}
	left, _ := cam.WorldToScreen(float32(c0), 0)
	right, _ := cam.WorldToScreen(float32(c1+1), 0)
	for r := r0; r <= r1+1; r++ {
		_, y := cam.WorldToScreen(0, float32(r))
		rl.DrawLine(int32(left), int32(y), int32(right), int32(y), lineColor)
	}
}

func (g *Game) drawParticleStates() {
	cam := g.gfx.cam
	g.sim.Grid().Each(func(_ ecs.Entity, cell vmath.Cell, p *components.Particle) {
		if p.Material.IsStatic() {
			return
		}
		tint, ok := stateTints[p.State]
		if !ok || !cam.IsVisible(float32(cell.Col)+0.5, float32(cell.Row)+0.5, 1) {
			return
		}
		x, y, w, h := cam.CellRect(cell)
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, tint)
	})
}

// drawVelocities draws each moving particle's displacement for one tick.
func (g *Game) drawVelocities() {
	cam := g.gfx.cam
	lineColor := rl.Color{R: 255, G: 255, B: 120, A: 200}
	g.sim.Grid().Each(func(_ ecs.Entity, cell vmath.Cell, p *components.Particle) {
		if p.Velocity == vmath.Zero {
			return
		}
		cx, cy := float32(cell.Col)+0.5, float32(cell.Row)+0.5
		if !cam.IsVisible(cx, cy, 1) {
			return
		}
		sx, sy := cam.WorldToScreen(cx, cy)
		ex, ey := cam.WorldToScreen(cx+float32(p.Velocity.X), cy+float32(p.Velocity.Y))
		rl.DrawLineEx(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, 1, lineColor)
	})
}

// drawBrush outlines the cells the spawn tool would paint.
func (g *Game) drawBrush() {
	cursor, ok := g.tool.Cursor()
	if !ok {
		return
	}
	cam := g.gfx.cam
	grid := g.sim.Grid()
	outline := g.cfg.Derived.Cursor
	outline.A = 160
	for _, cell := range g.tool.Footprint(cursor) {
		if !grid.InBounds(cell) {
			continue
		}
		x, y, w, h := cam.CellRect(cell)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, 1, outline)
	}
}

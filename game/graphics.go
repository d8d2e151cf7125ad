package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandfall/camera"
	"github.com/pthm-cable/sandfall/input"
	"github.com/pthm-cable/sandfall/inspector"
	"github.com/pthm-cable/sandfall/renderer"
	"github.com/pthm-cable/sandfall/telemetry"
	"github.com/pthm-cable/sandfall/ui"
	"github.com/pthm-cable/sandfall/vmath"
)

// Legend shown along the bottom edge of the window.
const controlsLegend = "LMB paint  RMB/X erase  MMB pin  Tab/[ ] material  +/- brush  Space pause  N step  Wheel zoom  Home reset  Esc deselect  O overlays  Q quit"

// graphics holds the raylib frontend.
type graphics struct {
	cam       *camera.Camera
	canvas    *renderer.Canvas
	src       *input.Raylib
	hud       *ui.HUD
	toolbar   *ui.Toolbar
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector

	// Toolbar clicks are collected during Draw and applied on the next Update
	pending input.Signals

	screenW, screenH float32
}

// InitGraphics attaches the raylib frontend. The window must already be
// open.
func (g *Game) InitGraphics() {
	cfg := g.cfg
	grid := g.sim.Grid()
	sw := float32(rl.GetScreenWidth())
	sh := float32(rl.GetScreenHeight())

	gfx := &graphics{
		cam:       camera.New(sw, sh, float32(grid.Width()), float32(grid.Height()), cfg.Derived.CellSize32),
		canvas:    renderer.NewCanvas(grid.Width(), grid.Height(), cfg.Derived.Background),
		overlays:  ui.NewOverlayRegistry(),
		perfPanel: ui.NewPerfPanel(int32(sw)-250, 10),
		controls:  ui.NewControlsPanel(10, 0, 230),
		inspector: inspector.NewInspector(int32(sw)),
		screenW:   sw,
		screenH:   sh,
	}
	gfx.canvas.Init()
	// Escape clears the inspector selection; Q quits
	rl.SetExitKey(rl.KeyNull)
	gfx.overlays.SetEnabled(ui.OverlayHUD, cfg.Display.ShowHUD)

	buttons := make([]ui.MaterialButton, 0, len(g.tool.Names()))
	for _, name := range g.tool.Names() {
		m, _ := g.table.Lookup(name)
		buttons = append(buttons, ui.MaterialButton{Name: m.Name, Color: m.Color})
	}
	gfx.toolbar = ui.NewToolbar(10, 10, buttons)
	gfx.hud = ui.NewHUD(10, int32(gfx.toolbar.Bounds().Height)+20)
	gfx.controls.SetPosition(10, int32(gfx.toolbar.Bounds().Height)+20+gfx.hud.Height()+10)

	gfx.src = input.NewRaylib(func(p rl.Vector2) (vmath.Cell, bool) {
		return gfx.cam.ScreenToCell(p.X, p.Y)
	})
	gfx.src.Captured = gfx.captured

	g.gfx = gfx
	g.input = gfx.src
	g.sim.SetSink(gfx.canvas)
	g.sim.Redraw()
}

// captured reports screen positions owned by a visible panel.
func (gfx *graphics) captured(p rl.Vector2) bool {
	if gfx.controls.Captured(p, gfx.overlays) {
		return true
	}
	return gfx.overlays.IsEnabled(ui.OverlayToolbar) && gfx.toolbar.Captured(p)
}

func (gfx *graphics) unload() {
	gfx.canvas.Unload()
}

// Update polls raylib input and advances the simulation one frame.
func (g *Game) Update() {
	gfx := g.gfx
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)

	g.handleResize()
	g.handleOverlayKeys()

	sig := g.input.Poll().Merge(gfx.pending)
	gfx.pending = input.Signals{}
	g.handleCameraInput(sig)

	if !sig.HasPointer {
		g.tool.HideCursor()
	}
	if sig.HasPointer && rl.IsMouseButtonPressed(rl.MouseButtonMiddle) {
		gfx.inspector.TogglePin(sig.Pointer)
	}
	gfx.inspector.Track(sig.Pointer, sig.HasPointer)

	g.frame(sig, g.frameDT())
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	gfx := g.gfx
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == gfx.screenW && h == gfx.screenH {
		return
	}
	gfx.screenW = w
	gfx.screenH = h
	gfx.cam.Resize(w, h)
	gfx.inspector.Resize(int32(w))
	gfx.perfPanel.SetPosition(int32(w)-250, 10)
}

// handleOverlayKeys toggles overlays and window-level options.
func (g *Game) handleOverlayKeys() {
	gfx := g.gfx
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		switch key {
		case rl.KeyF11:
			rl.ToggleFullscreen()
		case rl.KeyO:
			gfx.controls.Toggle()
		case rl.KeyHome:
			gfx.cam.Reset()
		case rl.KeyEscape:
			gfx.inspector.Deselect()
		default:
			gfx.overlays.HandleKeyPress(key)
		}
	}
}

// handleCameraInput pans with the arrow signals and zooms with the wheel.
func (g *Game) handleCameraInput(sig input.Signals) {
	cam := g.gfx.cam
	const panSpeed = 8

	if sig.Has(input.SignalRight) {
		cam.Pan(panSpeed, 0)
	}
	if sig.Has(input.SignalLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if sig.Has(input.SignalDown) {
		cam.Pan(0, panSpeed)
	}
	if sig.Has(input.SignalUp) {
		cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
}

// Draw renders the lattice and the UI.
func (g *Game) Draw() {
	gfx := g.gfx
	g.perfCollector.StartPhase(telemetry.PhaseRender)
	g.perfCollector.RecordFrame()

	gfx.canvas.Sync()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 24, G: 26, B: 30, A: 255})

	x, y, w, h := gfx.cam.LatticeRect()
	gfx.canvas.Draw(rl.Rectangle{X: x, Y: y, Width: w, Height: h})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x - 1, Y: y - 1, Width: w + 2, Height: h + 2}, 1, rl.DarkGray)

	g.drawActiveOverlays()
	g.drawUI()

	rl.EndDrawing()
	g.perfCollector.EndTick()
}

// drawUI draws the panels on top of the lattice.
func (g *Game) drawUI() {
	gfx := g.gfx

	if gfx.overlays.IsEnabled(ui.OverlayInspector) {
		gfx.inspector.DrawSelectionHighlight(gfx.cam)
		if cell, ok := gfx.inspector.Selected(); ok {
			gfx.inspector.Draw(inspector.Inspect(g.sim.Grid(), cell))
		}
	}

	if gfx.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		gfx.perfPanel.Draw(ui.PerfPanelData{
			PhaseTimes: stats.PhaseAvg,
			Total:      stats.AvgTickDuration,
			TicksPerS:  stats.TicksPerSecond,
		}, telemetry.Phases())
	}

	if gfx.overlays.IsEnabled(ui.OverlayHUD) {
		m := g.tool.Material()
		cursor := "-"
		if c, ok := g.tool.Cursor(); ok {
			cursor = c.String()
		}
		gfx.hud.Draw(ui.HUDData{
			Title:         Title,
			Tick:          g.Tick(),
			Particles:     g.sim.Grid().Count(),
			Falling:       g.lastStats.Falling,
			Resting:       g.lastStats.Resting,
			Removed:       g.removedTotal,
			Material:      m.Name,
			MaterialColor: m.Color,
			Brush:         g.tool.Radius(),
			Cursor:        cursor,
			FPS:           rl.GetFPS(),
			Paused:        g.paused,
		})
	}

	if gfx.overlays.IsEnabled(ui.OverlayToolbar) {
		action := gfx.toolbar.Draw(g.tool.Index(), g.tool.Radius(), g.paused)
		g.applyToolbar(action)
	}

	gfx.controls.Draw(gfx.overlays)
	gfx.hud.DrawControls(int32(gfx.screenH), controlsLegend)
}

// applyToolbar turns toolbar clicks into signals for the next Update.
func (g *Game) applyToolbar(a ui.ToolbarAction) {
	if a.None() {
		return
	}
	if a.Select >= 0 {
		g.tool.Select(a.Select)
	}
	if a.Clear {
		g.Clear()
	}
	var s input.Signals
	if a.Pause {
		s.Active |= input.SignalPause
	}
	if a.Step {
		s.Active |= input.SignalStep
	}
	if a.BrushUp {
		s.Active |= input.SignalBrushUp
	}
	if a.BrushDown {
		s.Active |= input.SignalBrushDown
	}
	g.gfx.pending = g.gfx.pending.Merge(s)
}

// drawHint draws a short message at the bottom-right corner.
func (g *Game) drawHint(text string) {
	w := rl.MeasureText(text, 14)
	rl.DrawText(text, int32(g.gfx.screenW)-w-10, int32(g.gfx.screenH)-25, 14, rl.Yellow)
}

// pausedHint is shown while stepping is paused.
func pausedHint(tick uint64) string {
	return fmt.Sprintf("paused at tick %d (N to step)", tick)
}

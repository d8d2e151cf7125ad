package game

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/sandfall/input"
	"github.com/pthm-cable/sandfall/inspector"
	"github.com/pthm-cable/sandfall/renderer"
	"github.com/pthm-cable/sandfall/telemetry"
	"github.com/pthm-cable/sandfall/vmath"
)

// statusRows is the number of terminal rows above the lattice.
const statusRows = 1

// RunTerminal drives the game on an initialized tcell screen until the user
// quits, maxTicks ticks have run (0 = unlimited), or an error stops it.
func (g *Game) RunTerminal(screen tcell.Screen, maxTicks uint64) error {
	grid := g.sim.Grid()
	view := renderer.NewTerminal(screen, grid.Width(), grid.Height(), g.cfg.Derived.Background)
	view.SetOffset(0, statusRows)
	g.sim.SetSink(view)
	g.sim.Redraw()

	src := input.NewTerminal(screen, view.CellAt)
	defer src.Close()

	fps := max(g.cfg.Screen.TargetFPS, 1)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var lastCursor vmath.Cell
	var hadCursor bool
	for !g.done {
		<-ticker.C

		sig := src.Poll()
		if sig.Has(input.SignalResize) {
			screen.Sync()
			view.Invalidate()
		}

		g.perfCollector.StartTick()
		g.frame(sig, g.frameDT())

		g.perfCollector.StartPhase(telemetry.PhaseRender)
		cursor, ok := g.tool.Cursor()
		if ok {
			view.Follow(cursor)
		}
		if ok != hadCursor || cursor != lastCursor {
			// Repaint the cell the cursor left
			view.Invalidate()
		}
		lastCursor, hadCursor = cursor, ok

		view.Show()
		if ok {
			g.drawTerminalCursor(screen, view, cursor)
		}
		g.drawTerminalStatus(screen)
		screen.Show()
		g.perfCollector.EndTick()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}
	return g.err
}

// drawTerminalCursor recolors the half of the character that shows cursor.
func (g *Game) drawTerminalCursor(screen tcell.Screen, view *renderer.Terminal, cursor vmath.Cell) {
	x, y := view.ScreenPos(cursor)
	if y < statusRows {
		return
	}
	mainc, combc, style, _ := screen.GetContent(x, y)
	c := g.cfg.Derived.Cursor
	tc := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	if cursor.Row%2 == 0 {
		style = style.Foreground(tc)
	} else {
		style = style.Background(tc)
	}
	screen.SetContent(x, y, mainc, combc, style)
}

// drawTerminalStatus writes the one-line HUD above the lattice.
func (g *Game) drawTerminalStatus(screen tcell.Screen) {
	w, _ := screen.Size()
	status := fmt.Sprintf(" %s  tick %d  particles %d  removed %d  %s r=%d",
		Title, g.Tick(), g.sim.Grid().Count(), g.removedTotal, g.tool.Material().Name, g.tool.Radius())
	if g.paused {
		status += "  PAUSED"
	}
	if cursor, ok := g.tool.Cursor(); ok {
		status += "  " + inspector.Inspect(g.sim.Grid(), cursor).Lines()[0]
	}

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		screen.SetContent(x, 0, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		screen.SetContent(x, 0, ' ', nil, style)
	}
}

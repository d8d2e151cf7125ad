// Package game wires the simulator to a frontend: it owns the spawn tool,
// the frame loop, telemetry and the optional audio cues.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/sandfall/audio"
	"github.com/pthm-cable/sandfall/config"
	"github.com/pthm-cable/sandfall/input"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/systems"
	"github.com/pthm-cable/sandfall/telemetry"
	"github.com/pthm-cable/sandfall/vmath"
)

// ErrInvariant is returned when the occupancy grid fails validation.
var ErrInvariant = errors.New("occupancy invariant violated")

// Game holds the complete simulation and frontend-independent state.
type Game struct {
	cfg   *config.Config
	table *materials.Table
	sim   *systems.Simulator
	tool  *SpawnTool
	input input.Source

	// State
	paused          bool
	done            bool
	err             error
	stepsPerUpdate  int
	fixedDT         float64 // 0 means measured
	maxDT           float64
	checkInvariants bool
	removedTotal    int
	lastFrame       time.Time
	now             func() time.Time

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats

	cues *audio.Cues

	// Graphical frontend state; nil when headless or in the terminal.
	gfx *graphics
}

// NewGameWithOptions builds the lattice, seeds it from config and prepares
// telemetry. The simulator draws into a discarding sink until a frontend
// attaches its own.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	table := cfg.Derived.Materials

	grid := systems.NewOccupancyGrid(cfg.Lattice.Width, cfg.Lattice.Height)
	sim := systems.NewSimulator(grid, nil, cfg.Derived.Background)

	tool, err := NewSpawnTool(table, cfg.Spawn.Material, cfg.Spawn.BrushRadius, cfg.Spawn.MaxRadius)
	if err != nil {
		return nil, err
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := cfg.Physics.StepsPerUpdate
	if opts.StepsPerUpdate > 0 {
		steps = opts.StepsPerUpdate
	}

	g := &Game{
		cfg:             cfg,
		table:           table,
		sim:             sim,
		tool:            tool,
		input:           opts.Input,
		stepsPerUpdate:  max(steps, 1),
		fixedDT:         cfg.Physics.DT,
		maxDT:           cfg.Physics.MaxDT,
		checkInvariants: opts.CheckInvariants,
		now:             time.Now,

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.NominalDT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	if g.input == nil {
		g.input = input.None{}
	}
	// Headless runs are deterministic: measured time is replaced by the
	// nominal step.
	if opts.Headless && g.fixedDT == 0 {
		g.fixedDT = cfg.Derived.NominalDT
	}

	sim.SetRemoveCallback(func(vmath.Cell, *materials.Material) {
		g.removedTotal++
		g.cues.Remove()
	})

	if err := g.seed(opts.Seed); err != nil {
		return nil, err
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("output: %w", err)
		}
		g.outputManager = om
	}

	if cfg.Audio.Enabled || opts.Sound {
		g.cues = audio.New(cfg.Audio)
		if err := g.cues.Initialize(); err != nil {
			// Non-fatal, the simulation runs without sound
			slog.Warn("audio initialization failed", "error", err)
			g.cues = nil
		}
	}

	return g, nil
}

// seed places the configured terrain and scene.
func (g *Game) seed(seedOverride int64) error {
	terrain := g.cfg.Terrain
	if seedOverride != 0 {
		terrain.Seed = seedOverride
	}
	r, err := SeedTerrain(g.sim, g.table, terrain)
	if err != nil {
		return err
	}
	s, err := SeedScene(g.sim, g.table, g.cfg.Seeds)
	if err != nil {
		return err
	}
	r.add(s)
	if r.Skipped > 0 {
		slog.Warn("seed cells skipped", "skipped", r.Skipped, "placed", r.Placed)
	}
	g.collector.RecordSpawns(r.Placed)
	return nil
}

// Simulator returns the underlying simulator.
func (g *Game) Simulator() *systems.Simulator { return g.sim }

// Tool returns the spawn tool.
func (g *Game) Tool() *SpawnTool { return g.tool }

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() uint64 { return g.sim.Tick() }

// Paused reports whether stepping is paused.
func (g *Game) Paused() bool { return g.paused }

// Done reports whether the game asked to quit or hit an error.
func (g *Game) Done() bool { return g.done }

// Err returns the error that stopped the game, if any.
func (g *Game) Err() error { return g.err }

// Removed returns how many particles have fallen off the bottom.
func (g *Game) Removed() int { return g.removedTotal }

// LastStats returns the most recently flushed telemetry window.
func (g *Game) LastStats() telemetry.WindowStats { return g.lastStats }

// frameDT returns the step length for this frame: the fixed step, or the
// measured time since the last frame clamped to [0, maxDT].
func (g *Game) frameDT() float64 {
	now := g.now()
	defer func() { g.lastFrame = now }()

	if g.fixedDT > 0 {
		return g.fixedDT
	}
	if g.lastFrame.IsZero() {
		return g.cfg.Derived.NominalDT
	}
	dt := now.Sub(g.lastFrame).Seconds()
	if dt < 0 {
		slog.Warn("negative frame time clamped to zero", "dt", dt)
		return 0
	}
	return min(dt, g.maxDT)
}

// frame applies one poll of input and advances the simulation. Callers
// bracket it with perfCollector.StartTick and EndTick.
func (g *Game) frame(sig input.Signals, dt float64) {
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	step := g.applyControls(sig)
	if g.done {
		return
	}

	g.perfCollector.StartPhase(telemetry.PhaseSpawn)
	g.applyBrush(sig)

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	n := g.stepsPerUpdate
	if g.paused {
		n = 0
		if step {
			n = 1
		}
	}
	for i := 0; i < n && !g.done; i++ {
		g.stepOnce(dt)
	}
}

// stepOnce advances one tick and runs the per-tick bookkeeping.
func (g *Game) stepOnce(dt float64) {
	stats := g.sim.Step(dt)
	g.collector.RecordStep(stats)

	if g.checkInvariants {
		if err := g.sim.Grid().Validate(); err != nil {
			g.fail(fmt.Errorf("tick %d: %w: %w", g.sim.Tick(), ErrInvariant, err))
			return
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.StartPhase(telemetry.PhaseStep)
}

// applyControls handles the non-brush signals. It reports whether a single
// step was requested.
func (g *Game) applyControls(sig input.Signals) bool {
	if sig.Has(input.SignalQuit) {
		g.done = true
		return false
	}
	if sig.Has(input.SignalPause) {
		g.paused = !g.paused
	}
	if sig.Has(input.SignalNextMaterial) {
		g.tool.Next()
	}
	if sig.Has(input.SignalPrevMaterial) {
		g.tool.Prev()
	}
	if sig.Has(input.SignalBrushUp) {
		g.tool.Grow()
	}
	if sig.Has(input.SignalBrushDown) {
		g.tool.Shrink()
	}

	if sig.HasPointer {
		g.tool.SetCursor(sig.Pointer)
	} else if g.gfx == nil {
		// Without a camera the arrow keys steer the cursor
		dc, dr := 0, 0
		if sig.Has(input.SignalLeft) {
			dc--
		}
		if sig.Has(input.SignalRight) {
			dc++
		}
		if sig.Has(input.SignalUp) {
			dr--
		}
		if sig.Has(input.SignalDown) {
			dr++
		}
		if dc != 0 || dr != 0 {
			grid := g.sim.Grid()
			g.tool.MoveCursor(dc, dr, grid.Width(), grid.Height())
		}
	}
	return sig.Has(input.SignalStep)
}

// applyBrush paints or erases under the cursor. Erase wins when both are
// held.
func (g *Game) applyBrush(sig input.Signals) {
	cursor, ok := g.tool.Cursor()
	if !ok {
		return
	}
	switch {
	case sig.Has(input.SignalErase):
		g.collector.RecordErases(g.tool.Erase(g.sim, cursor))
	case sig.Has(input.SignalSpawn):
		n, err := g.tool.Paint(g.sim, cursor)
		g.collector.RecordSpawns(n)
		if n > 0 {
			g.cues.Spawn()
		}
		if err != nil {
			slog.Error("spawn failed", "cell", cursor.String(), "error", err)
		}
	}
}

// Clear removes every particle and repaints the lattice.
func (g *Game) Clear() {
	g.sim.Grid().Clear()
	g.sim.Redraw()
}

func (g *Game) fail(err error) {
	slog.Error("simulation stopped", "error", err)
	g.err = err
	g.done = true
}

// Unload flushes output files and releases frontend resources.
func (g *Game) Unload() {
	if g.gfx != nil {
		g.gfx.unload()
		g.gfx = nil
	}
	g.cues.Close()
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}

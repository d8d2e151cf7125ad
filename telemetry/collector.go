package telemetry

import (
	"fmt"
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandfall/components"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/systems"
	"github.com/pthm-cable/sandfall/vmath"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	spawns     int
	erases     int
	removals   int
	moves      int
	slides     int
	rests      int
	collisions int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: nominal seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	if dt <= 0 {
		dt = 1.0 / 60
	}
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSpawns records n particles placed by the spawn tool or seeding.
func (c *Collector) RecordSpawns(n int) {
	c.spawns += n
}

// RecordErases records n particles removed by the eraser.
func (c *Collector) RecordErases(n int) {
	c.erases += n
}

// RecordStep folds one simulator step's counters into the window.
func (c *Collector) RecordStep(s systems.StepStats) {
	c.removals += s.Removed
	c.moves += s.Moved
	c.slides += s.Slid
	c.rests += s.Rested
	c.collisions += s.Collided
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is a snapshot of the particles in the grid.
type Population struct {
	Particles int
	Static    int
	Resting   int
	Falling   int
	Sliding   int

	Speeds     []float64 // magnitude of each non-static particle's velocity
	ByMaterial []int     // indexed by materials.Kind
	Names      []string  // material names in kind order
}

// SamplePopulation walks every particle in grid and tallies it.
func SamplePopulation(grid *systems.OccupancyGrid, table *materials.Table) Population {
	pop := Population{
		ByMaterial: make([]int, table.Len()),
		Names:      table.Names(),
	}
	grid.Each(func(_ ecs.Entity, _ vmath.Cell, p *components.Particle) {
		pop.Particles++
		if kind, ok := table.KindOf(p.Material.Name); ok {
			pop.ByMaterial[kind]++
		}
		if p.IsStatic() {
			pop.Static++
			return
		}
		switch p.State {
		case components.StateResting:
			pop.Resting++
		case components.StateFalling:
			pop.Falling++
		case components.StateSliding:
			pop.Sliding++
		}
		pop.Speeds = append(pop.Speeds, p.Velocity.Magnitude())
	})
	return pop
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, pop Population) WindowStats {
	speedMean, speedStd, p10, p50, p90 := ComputeSpeedStats(pop.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Particles: pop.Particles,
		Static:    pop.Static,
		Resting:   pop.Resting,
		Falling:   pop.Falling,
		Sliding:   pop.Sliding,

		Spawns:     c.spawns,
		Erases:     c.erases,
		Removals:   c.removals,
		Moves:      c.moves,
		Slides:     c.slides,
		Rests:      c.rests,
		Collisions: c.collisions,

		SpeedMean: speedMean,
		SpeedStd:  speedStd,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		Materials: formatMaterials(pop.Names, pop.ByMaterial),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.erases = 0
	c.removals = 0
	c.moves = 0
	c.slides = 0
	c.rests = 0
	c.collisions = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}

func formatMaterials(names []string, counts []int) string {
	var b strings.Builder
	for i, n := range counts {
		if i >= len(names) {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%d", names[i], n)
	}
	return b.String()
}

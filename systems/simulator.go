package systems

import (
	"fmt"
	"image/color"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandfall/components"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/vmath"
)

// StepStats counts what happened to particles during one tick.
type StepStats struct {
	Stepped  int // particles processed
	Static   int // zero-gravity particles redrawn in place
	Moved    int // particles that changed cell (falls and slides)
	Slid     int // diagonal slides off an occupied cell
	Rested   int // boxed in on all three lower neighbors
	Collided int // swept moves stopped short by an obstruction
	Removed  int // fell off the bottom of the lattice
}

// RemoveFunc is called when a particle falls off the bottom of the lattice.
// cell is the last cell it occupied. The particle is still in the grid, in
// StateRemoved, for the duration of the call.
type RemoveFunc func(cell vmath.Cell, m *materials.Material)

// Simulator advances every particle in an OccupancyGrid one tick at a time and
// reports color changes to a DisplaySink. It is the only mutator of the grid
// while Step runs; callers must not touch the grid concurrently.
type Simulator struct {
	grid       *OccupancyGrid
	sink       DisplaySink
	background color.RGBA

	tick     uint64
	stats    StepStats
	onRemove RemoveFunc

	samples []vmath.Cell // reused swept-path buffer
}

// NewSimulator creates a simulator over grid. A nil sink discards writes.
// background is the color written into vacated cells.
func NewSimulator(grid *OccupancyGrid, sink DisplaySink, background color.RGBA) *Simulator {
	if sink == nil {
		sink = DiscardSink{}
	}
	return &Simulator{
		grid:       grid,
		sink:       sink,
		background: background,
		samples:    make([]vmath.Cell, 0, 16),
	}
}

// Grid returns the occupancy grid.
func (s *Simulator) Grid() *OccupancyGrid { return s.grid }

// Tick returns the number of completed steps.
func (s *Simulator) Tick() uint64 { return s.tick }

// Stats returns the counters of the most recent step.
func (s *Simulator) Stats() StepStats { return s.stats }

// Background returns the color written into vacated cells.
func (s *Simulator) Background() color.RGBA { return s.background }

// SetSink replaces the display sink. A nil sink discards writes.
func (s *Simulator) SetSink(sink DisplaySink) {
	if sink == nil {
		sink = DiscardSink{}
	}
	s.sink = sink
}

// SetRemoveCallback registers fn to be told about bottom-boundary removals.
func (s *Simulator) SetRemoveCallback(fn RemoveFunc) {
	s.onRemove = fn
}

// SpawnParticle inserts a resting particle of material m at cell and draws it.
// It fails like OccupancyGrid.Insert.
func (s *Simulator) SpawnParticle(m *materials.Material, cell vmath.Cell) (ecs.Entity, error) {
	if m == nil {
		return ecs.Entity{}, fmt.Errorf("spawn %v: %w: nil material", cell, materials.ErrUnknownMaterial)
	}
	e, err := s.grid.Insert(components.NewParticle(m), cell)
	if err != nil {
		return ecs.Entity{}, err
	}
	s.sink.WriteCell(cell, m.Color)
	return e, nil
}

// Erase removes the particle at cell and clears it. It fails like
// OccupancyGrid.Remove.
func (s *Simulator) Erase(cell vmath.Cell) error {
	if err := s.grid.Remove(cell); err != nil {
		return err
	}
	s.sink.WriteCell(cell, s.background)
	return nil
}

// Redraw repaints every lattice cell. Use it after attaching a fresh sink.
func (s *Simulator) Redraw() {
	for row := 0; row < s.grid.height; row++ {
		for col := 0; col < s.grid.width; col++ {
			cell := vmath.C(col, row)
			if p := s.grid.ParticleAt(cell); p != nil {
				s.sink.WriteCell(cell, p.Material.Color)
			} else {
				s.sink.WriteCell(cell, s.background)
			}
		}
	}
}

// Step advances the simulation by dt seconds. Rows are scanned from the
// bottom up so a particle that falls lands in a row that has already been
// visited; the per-particle tick stamp covers any other relocation.
// Negative dt is treated as zero.
func (s *Simulator) Step(dt float64) StepStats {
	if dt < 0 {
		dt = 0
	}
	s.tick++
	s.stats = StepStats{}

	for row := s.grid.height - 1; row >= 0; row-- {
		for col := 0; col < s.grid.width; col++ {
			cell := vmath.C(col, row)
			e, ok := s.grid.Occupant(cell)
			if !ok {
				continue
			}
			p := s.grid.partMap.Get(e)
			if p.Stepped == s.tick {
				continue
			}
			p.Stepped = s.tick
			s.stepParticle(e, cell, p, dt)
		}
	}
	return s.stats
}

// stepParticle runs gravity, stacking and the swept move for one particle.
// p is invalid once the particle has been removed.
func (s *Simulator) stepParticle(e ecs.Entity, from vmath.Cell, p *components.Particle, dt float64) {
	s.stats.Stepped++
	p.Previous = from

	if p.IsStatic() {
		s.stats.Static++
		s.draw(from, from, p.Material.Color)
		return
	}

	p.ApplyGravity(dt)

	if other, ok := s.grid.Occupant(from.Below()); ok && other != e {
		s.draw(from, s.slide(from, p), p.Material.Color)
		return
	}

	to, removed := s.sweep(e, from, p)
	if removed {
		return
	}
	s.draw(from, to, p.Material.Color)
}

// slide resolves a particle standing on another one: down-right first, then
// down-left, else it rests where it is. Returns the final cell.
func (s *Simulator) slide(from vmath.Cell, p *components.Particle) vmath.Cell {
	for _, dc := range [2]int{1, -1} {
		to := from.Offset(dc, 1)
		if !s.grid.IsFree(to) {
			continue
		}
		if err := s.grid.MoveParticle(from, to); err != nil {
			break
		}
		p.Velocity = vmath.V(float64(dc), 1)
		p.State = components.StateSliding
		s.stats.Slid++
		s.stats.Moved++
		return to
	}

	p.Rest()
	s.stats.Rested++
	return from
}

// sweep walks the straight path to from+trunc(velocity). The particle stops at
// the last unobstructed sample when it meets another particle or a side wall,
// and is removed if the path leaves through the bottom of the lattice.
// Displacements longer than the lattice are shortened along their direction,
// since any such path leaves the lattice before its end.
func (s *Simulator) sweep(e ecs.Entity, from vmath.Cell, p *components.Particle) (vmath.Cell, bool) {
	target := from.Add(p.Velocity.TruncWithin(max(s.grid.width, s.grid.height) + 1))
	s.samples = vmath.SampleLineInto(s.samples[:0], from, target)

	to := from
	blocked := false
	for _, pt := range s.samples {
		if pt.Row >= s.grid.height {
			p.State = components.StateRemoved
			s.remove(from, p.Material)
			return from, true
		}
		if !s.grid.InBounds(pt) {
			blocked = true
			break
		}
		if other, ok := s.grid.Occupant(pt); ok && other != e {
			blocked = true
			break
		}
		to = pt
	}

	if to != from {
		if err := s.grid.MoveParticle(from, to); err != nil {
			to = from
			blocked = true
		} else {
			s.stats.Moved++
		}
	}

	if blocked {
		p.Rest()
		s.stats.Collided++
	} else {
		p.State = components.StateFalling
	}
	return to, false
}

func (s *Simulator) remove(cell vmath.Cell, m *materials.Material) {
	if s.onRemove != nil {
		s.onRemove(cell, m)
	}
	// The cell was just read as occupied, so Remove cannot fail here.
	_ = s.grid.Remove(cell)
	s.sink.WriteCell(cell, s.background)
	s.stats.Removed++
}

func (s *Simulator) draw(from, to vmath.Cell, c color.RGBA) {
	s.sink.WriteCell(from, s.background)
	s.sink.WriteCell(to, c)
}

// Package systems provides the simulation engine: the occupancy grid that owns
// every particle and the simulator that advances them one tick at a time.
package systems

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandfall/components"
	"github.com/pthm-cable/sandfall/vmath"
)

var (
	// ErrOutOfBounds is returned for a cell outside the lattice.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrCellOccupied is returned when inserting into an occupied cell.
	ErrCellOccupied = errors.New("cell occupied")
	// ErrEmptyCell is returned when removing from an empty cell. Callers that
	// clear speculatively may ignore it.
	ErrEmptyCell = errors.New("cell empty")
)

// OccupancyGrid maps each lattice cell to at most one particle entity.
// Particles live in an ECS world owned by the grid; the grid is the only
// holder of their entities.
type OccupancyGrid struct {
	width, height int
	cells         []ecs.Entity // row-major: row*width + col

	world     *ecs.World
	particles *ecs.Map2[components.Position, components.Particle]
	posMap    *ecs.Map[components.Position]
	partMap   *ecs.Map[components.Particle]
	filter    *ecs.Filter2[components.Position, components.Particle]
	count     int
}

// NewOccupancyGrid creates an empty lattice of width × height cells.
func NewOccupancyGrid(width, height int) *OccupancyGrid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	world := ecs.NewWorld()
	return &OccupancyGrid{
		width:     width,
		height:    height,
		cells:     make([]ecs.Entity, width*height),
		world:     world,
		particles: ecs.NewMap2[components.Position, components.Particle](world),
		posMap:    ecs.NewMap[components.Position](world),
		partMap:   ecs.NewMap[components.Particle](world),
		filter:    ecs.NewFilter2[components.Position, components.Particle](world),
	}
}

// Width returns the number of columns.
func (g *OccupancyGrid) Width() int { return g.width }

// Height returns the number of rows.
func (g *OccupancyGrid) Height() int { return g.height }

// Count returns the number of particles in the grid.
func (g *OccupancyGrid) Count() int { return g.count }

// InBounds reports whether cell lies inside [0,width)×[0,height).
func (g *OccupancyGrid) InBounds(cell vmath.Cell) bool {
	return cell.Col >= 0 && cell.Col < g.width && cell.Row >= 0 && cell.Row < g.height
}

func (g *OccupancyGrid) index(cell vmath.Cell) int {
	return cell.Row*g.width + cell.Col
}

// Insert places a new particle at cell and returns its entity.
// The particle's position is set to cell.
func (g *OccupancyGrid) Insert(p components.Particle, cell vmath.Cell) (ecs.Entity, error) {
	if !g.InBounds(cell) {
		return ecs.Entity{}, fmt.Errorf("insert %v: %w", cell, ErrOutOfBounds)
	}
	idx := g.index(cell)
	if g.occupied(idx) {
		return ecs.Entity{}, fmt.Errorf("insert %v: %w", cell, ErrCellOccupied)
	}

	pos := components.Position{Cell: cell}
	p.Previous = cell
	e := g.particles.NewEntity(&pos, &p)
	g.cells[idx] = e
	g.count++
	return e, nil
}

// Remove vacates cell and destroys the particle that was there.
func (g *OccupancyGrid) Remove(cell vmath.Cell) error {
	if !g.InBounds(cell) {
		return fmt.Errorf("remove %v: %w", cell, ErrOutOfBounds)
	}
	idx := g.index(cell)
	if !g.occupied(idx) {
		return fmt.Errorf("remove %v: %w", cell, ErrEmptyCell)
	}

	g.world.RemoveEntity(g.cells[idx])
	g.cells[idx] = ecs.Entity{}
	g.count--
	return nil
}

// Occupant returns the entity at cell. Empty and out-of-bounds cells report
// false; this never panics.
func (g *OccupancyGrid) Occupant(cell vmath.Cell) (ecs.Entity, bool) {
	if !g.InBounds(cell) {
		return ecs.Entity{}, false
	}
	idx := g.index(cell)
	if !g.occupied(idx) {
		return ecs.Entity{}, false
	}
	return g.cells[idx], true
}

// ParticleAt returns the particle at cell, or nil when there is none.
func (g *OccupancyGrid) ParticleAt(cell vmath.Cell) *components.Particle {
	e, ok := g.Occupant(cell)
	if !ok {
		return nil
	}
	return g.partMap.Get(e)
}

// IsFree reports whether cell is inside the lattice and unoccupied.
func (g *OccupancyGrid) IsFree(cell vmath.Cell) bool {
	return g.InBounds(cell) && !g.occupied(g.index(cell))
}

// MoveParticle relocates the particle at from to the cell to, keeping its
// entity. It fails without side effects if to is out of bounds or occupied,
// or if from is empty.
func (g *OccupancyGrid) MoveParticle(from, to vmath.Cell) error {
	e, ok := g.Occupant(from)
	if !ok {
		if !g.InBounds(from) {
			return fmt.Errorf("move from %v: %w", from, ErrOutOfBounds)
		}
		return fmt.Errorf("move from %v: %w", from, ErrEmptyCell)
	}
	if from == to {
		return nil
	}
	if !g.InBounds(to) {
		return fmt.Errorf("move to %v: %w", to, ErrOutOfBounds)
	}
	toIdx := g.index(to)
	if g.occupied(toIdx) {
		return fmt.Errorf("move to %v: %w", to, ErrCellOccupied)
	}

	g.cells[g.index(from)] = ecs.Entity{}
	g.cells[toIdx] = e
	g.posMap.Get(e).Cell = to
	return nil
}

// Particle returns the particle component of e, or nil if e is not alive.
func (g *OccupancyGrid) Particle(e ecs.Entity) *components.Particle {
	if !g.world.Alive(e) {
		return nil
	}
	return g.partMap.Get(e)
}

// Position returns the cell e occupies.
func (g *OccupancyGrid) Position(e ecs.Entity) (vmath.Cell, bool) {
	if !g.world.Alive(e) {
		return vmath.Cell{}, false
	}
	return g.posMap.Get(e).Cell, true
}

// Each calls fn for every particle in the grid, in unspecified order.
// fn must not insert, move or remove particles.
func (g *OccupancyGrid) Each(fn func(e ecs.Entity, cell vmath.Cell, p *components.Particle)) {
	query := g.filter.Query()
	for query.Next() {
		pos, p := query.Get()
		fn(query.Entity(), pos.Cell, p)
	}
}

// Clear removes every particle.
func (g *OccupancyGrid) Clear() {
	for i, e := range g.cells {
		if e.IsZero() {
			continue
		}
		g.world.RemoveEntity(e)
		g.cells[i] = ecs.Entity{}
	}
	g.count = 0
}

// Validate checks that every occupied cell's particle records that cell as
// its position and that the grid and the ECS world agree on the count.
func (g *OccupancyGrid) Validate() error {
	seen := 0
	for idx, e := range g.cells {
		if e.IsZero() {
			continue
		}
		seen++
		cell := vmath.C(idx%g.width, idx/g.width)
		if !g.world.Alive(e) {
			return fmt.Errorf("cell %v holds a dead entity", cell)
		}
		if pos := g.posMap.Get(e).Cell; pos != cell {
			return fmt.Errorf("cell %v holds particle positioned at %v", cell, pos)
		}
	}
	if seen != g.count {
		return fmt.Errorf("grid holds %d particles, count is %d", seen, g.count)
	}

	alive := 0
	query := g.filter.Query()
	for query.Next() {
		alive++
	}
	if alive != seen {
		return fmt.Errorf("world holds %d particles, grid holds %d", alive, seen)
	}
	return nil
}

func (g *OccupancyGrid) occupied(idx int) bool {
	return !g.cells[idx].IsZero()
}

package game

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/systems"
	"github.com/pthm-cable/sandfall/vmath"
)

// SpawnTool is the user's brush: a selected material, a brush radius and a
// cursor cell on the lattice.
type SpawnTool struct {
	table     *materials.Table
	names     []string
	index     int
	radius    int
	maxRadius int

	cursor    vmath.Cell
	hasCursor bool
}

// NewSpawnTool selects material from table. radius is clamped to
// [0, maxRadius].
func NewSpawnTool(table *materials.Table, material string, radius, maxRadius int) (*SpawnTool, error) {
	kind, ok := table.KindOf(material)
	if !ok {
		return nil, fmt.Errorf("spawn tool: %w: %q", materials.ErrUnknownMaterial, material)
	}
	if maxRadius < 0 {
		maxRadius = 0
	}
	t := &SpawnTool{
		table:     table,
		names:     table.Names(),
		index:     int(kind),
		maxRadius: maxRadius,
	}
	t.SetRadius(radius)
	return t, nil
}

// Material returns the selected material.
func (t *SpawnTool) Material() *materials.Material {
	return t.table.ByKind(materials.Kind(t.index))
}

// Index returns the selected material's position in the table.
func (t *SpawnTool) Index() int { return t.index }

// Names returns the selectable material names in table order.
func (t *SpawnTool) Names() []string { return t.names }

// Select picks the material at index i; out-of-range indexes are ignored.
func (t *SpawnTool) Select(i int) {
	if i >= 0 && i < len(t.names) {
		t.index = i
	}
}

// Next selects the following material, wrapping around.
func (t *SpawnTool) Next() {
	t.index = (t.index + 1) % len(t.names)
}

// Prev selects the preceding material, wrapping around.
func (t *SpawnTool) Prev() {
	t.index = (t.index + len(t.names) - 1) % len(t.names)
}

// Radius returns the brush radius in cells. Radius 0 paints one cell.
func (t *SpawnTool) Radius() int { return t.radius }

// SetRadius sets the brush radius, clamped to [0, max].
func (t *SpawnTool) SetRadius(r int) {
	t.radius = max(0, min(r, t.maxRadius))
}

// Grow widens the brush by one cell.
func (t *SpawnTool) Grow() { t.SetRadius(t.radius + 1) }

// Shrink narrows the brush by one cell.
func (t *SpawnTool) Shrink() { t.SetRadius(t.radius - 1) }

// Cursor returns the cursor cell and whether it is placed.
func (t *SpawnTool) Cursor() (vmath.Cell, bool) {
	return t.cursor, t.hasCursor
}

// SetCursor places the cursor.
func (t *SpawnTool) SetCursor(cell vmath.Cell) {
	t.cursor = cell
	t.hasCursor = true
}

// HideCursor marks the cursor as off the lattice.
func (t *SpawnTool) HideCursor() {
	t.hasCursor = false
}

// MoveCursor nudges the cursor, keeping it inside a width x height lattice.
// An unplaced cursor starts at the top center.
func (t *SpawnTool) MoveCursor(dc, dr, width, height int) {
	if !t.hasCursor {
		t.SetCursor(vmath.C(width/2, 0))
	}
	c := t.cursor.Offset(dc, dr)
	c.Col = max(0, min(c.Col, width-1))
	c.Row = max(0, min(c.Row, height-1))
	t.cursor = c
}

// Footprint returns the cells covered by the brush centred on center, in
// row-major order. Cells may lie outside the lattice.
func (t *SpawnTool) Footprint(center vmath.Cell) []vmath.Cell {
	r := t.radius
	cells := make([]vmath.Cell, 0, (2*r+1)*(2*r+1))
	for dr := -r; dr <= r; dr++ {
		for dc := -r; dc <= r; dc++ {
			if dc*dc+dr*dr <= r*r {
				cells = append(cells, center.Offset(dc, dr))
			}
		}
	}
	return cells
}

// Paint spawns the selected material on every free in-bounds cell of the
// footprint and returns how many particles were placed.
func (t *SpawnTool) Paint(sim *systems.Simulator, center vmath.Cell) (int, error) {
	m := t.Material()
	placed := 0
	for _, cell := range t.Footprint(center) {
		_, err := sim.SpawnParticle(m, cell)
		switch {
		case err == nil:
			placed++
		case errors.Is(err, systems.ErrCellOccupied), errors.Is(err, systems.ErrOutOfBounds):
		default:
			return placed, err
		}
	}
	return placed, nil
}

// Erase removes every particle under the footprint and returns how many
// were removed.
func (t *SpawnTool) Erase(sim *systems.Simulator, center vmath.Cell) int {
	erased := 0
	for _, cell := range t.Footprint(center) {
		if sim.Erase(cell) == nil {
			erased++
		}
	}
	return erased
}

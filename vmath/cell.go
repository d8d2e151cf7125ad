package vmath

import "fmt"

// Cell is an integer lattice coordinate in (column, row) order.
// Row 0 is the top of the lattice; rows grow downward.
type Cell struct {
	Col, Row int
}

// C returns the cell (col, row).
func C(col, row int) Cell {
	return Cell{Col: col, Row: row}
}

// Add returns c + o.
func (c Cell) Add(o Cell) Cell {
	return Cell{Col: c.Col + o.Col, Row: c.Row + o.Row}
}

// Offset returns the cell displaced by (dc, dr).
func (c Cell) Offset(dc, dr int) Cell {
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Below returns the cell directly underneath c.
func (c Cell) Below() Cell {
	return Cell{Col: c.Col, Row: c.Row + 1}
}

// Vec converts c to a real-valued vector.
func (c Cell) Vec() Vec2 {
	return Vec2{X: float64(c.Col), Y: float64(c.Row)}
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

package components

import "github.com/pthm-cable/sandfall/vmath"

// Position is the lattice cell a particle occupies.
// The occupancy grid keeps it equal to the cell the particle is stored under.
type Position struct {
	vmath.Cell
}

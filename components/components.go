// Package components defines ECS components for the simulation.
package components

import (
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/vmath"
)

// State is where a particle is in its movement lifecycle.
type State uint8

const (
	StateResting State = iota // zero velocity, not currently able to move
	StateFalling              // free-falling through empty cells
	StateSliding              // displaced diagonally off an occupied cell
	StateRemoved              // fell off the bottom; set just before the entity is destroyed
)

// String returns the display name for a State.
func (s State) String() string {
	switch s {
	case StateResting:
		return "Resting"
	case StateFalling:
		return "Falling"
	case StateSliding:
		return "Sliding"
	case StateRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// Particle holds a grain's kinetic state. Material is shared by pointer
// across every particle of the same kind and must not be modified.
type Particle struct {
	Material *materials.Material `inspect:"skip"`
	Previous vmath.Cell          `inspect:"label,name:Last cell"`
	Velocity vmath.Vec2          `inspect:"label"`
	State    State               `inspect:"label"`

	// Stepped is the last simulator tick that processed this particle.
	Stepped uint64 `inspect:"skip"`
}

// NewParticle returns a particle of material m at rest.
func NewParticle(m *materials.Material) Particle {
	return Particle{Material: m}
}

// ApplyGravity accrues the material's gravity into the vertical velocity.
// It performs no bounds or collision checking.
func (p *Particle) ApplyGravity(dt float64) {
	p.Velocity.Y += p.Material.Gravity * dt
}

// IsStatic reports whether the particle's material never moves.
func (p *Particle) IsStatic() bool {
	return p.Material.IsStatic()
}

// Rest zeroes the velocity and marks the particle resting.
func (p *Particle) Rest() {
	p.Velocity = vmath.Zero
	p.State = StateResting
}

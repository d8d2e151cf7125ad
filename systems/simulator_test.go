package systems

import (
	"image/color"
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sandfall/components"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/vmath"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

type write struct {
	cell  vmath.Cell
	color color.RGBA
}

// recordingSink keeps every write for inspection.
type recordingSink struct {
	writes []write
}

func (r *recordingSink) WriteCell(cell vmath.Cell, c color.RGBA) {
	r.writes = append(r.writes, write{cell, c})
}

func (r *recordingSink) reset() { r.writes = r.writes[:0] }

func newSim(t *testing.T, w, h int) (*Simulator, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	return NewSimulator(NewOccupancyGrid(w, h), sink, white), sink
}

func spawn(t *testing.T, s *Simulator, m *materials.Material, col, row int) {
	t.Helper()
	_, err := s.SpawnParticle(m, vmath.C(col, row))
	require.NoError(t, err)
}

func TestSpawnParticle(t *testing.T) {
	s, sink := newSim(t, 10, 10)

	e, err := s.SpawnParticle(materials.Sand, vmath.C(3, 4))
	require.NoError(t, err)
	p := s.Grid().Particle(e)
	require.NotNil(t, p)
	assert.Equal(t, vmath.Zero, p.Velocity)
	assert.Equal(t, components.StateResting, p.State)
	assert.Equal(t, []write{{vmath.C(3, 4), materials.Sand.Color}}, sink.writes)

	_, err = s.SpawnParticle(materials.Stone, vmath.C(3, 4))
	assert.ErrorIs(t, err, ErrCellOccupied)
	_, err = s.SpawnParticle(materials.Stone, vmath.C(10, 0))
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.SpawnParticle(nil, vmath.C(0, 0))
	assert.ErrorIs(t, err, materials.ErrUnknownMaterial)
}

func TestFreeFallKeepsVelocity(t *testing.T) {
	s, _ := newSim(t, 10, 20)
	spawn(t, s, materials.Sand, 4, 0)

	s.Step(1) // v=2: (4,0) -> (4,2)
	p := s.Grid().ParticleAt(vmath.C(4, 2))
	require.NotNil(t, p)
	assert.Equal(t, vmath.V(0, 2), p.Velocity)
	assert.Equal(t, components.StateFalling, p.State)
	assert.Equal(t, vmath.C(4, 0), p.Previous)

	s.Step(1) // v=4: (4,2) -> (4,6)
	assert.NotNil(t, s.Grid().ParticleAt(vmath.C(4, 6)))
	require.NoError(t, s.Grid().Validate())
}

func TestSubCellVelocityAccumulates(t *testing.T) {
	s, _ := newSim(t, 5, 5)
	spawn(t, s, materials.Sand, 2, 0)

	s.Step(0.25) // v=0.5, truncates to 0
	p := s.Grid().ParticleAt(vmath.C(2, 0))
	require.NotNil(t, p)
	assert.InDelta(t, 0.5, p.Velocity.Y, 1e-12)

	s.Step(0.25) // v=1.0
	assert.NotNil(t, s.Grid().ParticleAt(vmath.C(2, 1)))
}

func TestStaticMaterialsNeverMove(t *testing.T) {
	s, _ := newSim(t, 8, 8)
	spawn(t, s, materials.Stone, 3, 2) // floating in mid-air
	spawn(t, s, materials.Stone, 3, 1) // stacked on another stone

	for _, dt := range []float64{0, 0.016, 1, 50} {
		stats := s.Step(dt)
		assert.Equal(t, 2, stats.Static)
	}
	assert.NotNil(t, s.Grid().ParticleAt(vmath.C(3, 2)))
	assert.NotNil(t, s.Grid().ParticleAt(vmath.C(3, 1)))
	assert.Equal(t, vmath.Zero, s.Grid().ParticleAt(vmath.C(3, 1)).Velocity)
}

func TestStackingPrefersDownRight(t *testing.T) {
	s, _ := newSim(t, 10, 10)
	spawn(t, s, materials.Sand, 5, 5)

	stats := s.Step(1)
	assert.Equal(t, 1, stats.Slid)

	p := s.Grid().ParticleAt(vmath.C(6, 6))
	require.NotNil(t, p, "sand should slide down-right")
	assert.Equal(t, vmath.V(1, 1), p.Velocity)
	assert.Equal(t, components.StateSliding, p.State)
	assert.Nil(t, s.Grid().ParticleAt(vmath.C(4, 6)))
}

func TestStackingFallsBackToDownLeft(t *testing.T) {
	s, _ := newSim(t, 10, 10)
	spawn(t, s, materials.Stone, 6, 6)
	spawn(t, s, materials.Sand, 5, 5)

	s.Step(1)
	p := s.Grid().ParticleAt(vmath.C(4, 6))
	require.NotNil(t, p)
	assert.Equal(t, vmath.V(-1, 1), p.Velocity)
}

func TestStackingAtSideWallDoesNotLeaveLattice(t *testing.T) {
	s, _ := newSim(t, 4, 4)
	spawn(t, s, materials.Stone, 3, 3)
	spawn(t, s, materials.Sand, 3, 2)

	s.Step(1)
	assert.NotNil(t, s.Grid().ParticleAt(vmath.C(2, 3)), "right diagonal is outside, slide left")
	require.NoError(t, s.Grid().Validate())
}

func TestBoxedParticleRestsIdempotently(t *testing.T) {
	s, _ := newSim(t, 6, 6)
	for col := 1; col <= 3; col++ {
		spawn(t, s, materials.Stone, col, 5)
	}
	spawn(t, s, materials.Sand, 2, 4)

	for i := 0; i < 10; i++ {
		stats := s.Step(1)
		assert.Equal(t, 1, stats.Rested)
		p := s.Grid().ParticleAt(vmath.C(2, 4))
		require.NotNil(t, p)
		assert.Equal(t, vmath.Zero, p.Velocity)
		assert.Equal(t, components.StateResting, p.State)
	}
}

func TestCollisionRevertsToLastFreeSample(t *testing.T) {
	s, _ := newSim(t, 10, 20)
	spawn(t, s, materials.Stone, 3, 4)
	spawn(t, s, materials.Sand, 3, 0)
	s.Grid().ParticleAt(vmath.C(3, 0)).Velocity = vmath.V(0, 6)

	stats := s.Step(0) // path (3,1)..(3,6), blocked at (3,4)
	assert.Equal(t, 1, stats.Collided)

	p := s.Grid().ParticleAt(vmath.C(3, 3))
	require.NotNil(t, p, "particle stops on the last free sample")
	assert.Equal(t, vmath.Zero, p.Velocity)
	assert.Equal(t, components.StateResting, p.State)
}

func TestCollisionOnFirstSampleStaysPut(t *testing.T) {
	s, _ := newSim(t, 10, 10)
	spawn(t, s, materials.Sand, 4, 5)
	// Diagonal path: first sample (5,6) is taken, cell below (4,6) is free.
	s.Grid().ParticleAt(vmath.C(4, 5)).Velocity = vmath.V(2, 2)

	s.Step(0)
	p := s.Grid().ParticleAt(vmath.C(4, 5))
	require.NotNil(t, p)
	assert.Equal(t, vmath.Zero, p.Velocity)
}

func TestSideWallBlocksSweep(t *testing.T) {
	s, _ := newSim(t, 5, 10)
	spawn(t, s, materials.Sand, 3, 0)
	s.Grid().ParticleAt(vmath.C(3, 0)).Velocity = vmath.V(4, 4)

	s.Step(0) // (4,1) free, (5,2) outside the right wall
	p := s.Grid().ParticleAt(vmath.C(4, 1))
	require.NotNil(t, p)
	assert.Equal(t, vmath.Zero, p.Velocity)
	require.NoError(t, s.Grid().Validate())
}

func TestBottomRowParticleIsRemoved(t *testing.T) {
	s, sink := newSim(t, 50, 50)
	spawn(t, s, materials.Sand, 0, 49)

	var removedAt vmath.Cell
	s.SetRemoveCallback(func(cell vmath.Cell, m *materials.Material) {
		removedAt = cell
		assert.Same(t, materials.Sand, m)
		p := s.Grid().ParticleAt(cell)
		require.NotNil(t, p, "the callback runs before the entity is destroyed")
		assert.Equal(t, components.StateRemoved, p.State)
	})

	sink.reset()
	stats := s.Step(1)
	assert.Equal(t, 1, stats.Removed)
	assert.Equal(t, vmath.C(0, 49), removedAt)
	assert.Equal(t, 0, s.Grid().Count())
	assert.Equal(t, []write{{vmath.C(0, 49), white}}, sink.writes, "only the vacated cell is cleared")

	sink.reset()
	s.Step(1)
	assert.Empty(t, sink.writes, "removed particles are never drawn again")
}

func TestFastParticleRemovedWhenPathCrossesBottom(t *testing.T) {
	s, _ := newSim(t, 10, 10)
	spawn(t, s, materials.Sand, 2, 5)
	s.Grid().ParticleAt(vmath.C(2, 5)).Velocity = vmath.V(0, 12)

	stats := s.Step(0)
	assert.Equal(t, 1, stats.Removed)
	assert.Equal(t, 0, s.Grid().Count())
}

func TestHugeDeltaTimeRemovesGrain(t *testing.T) {
	for _, dt := range []float64{2.5e7, 1e19, math.MaxFloat64} {
		s, _ := newSim(t, 10, 10)
		spawn(t, s, materials.Sand, 5, 0)

		stats := s.Step(dt)
		assert.Equal(t, 1, stats.Removed, "dt=%g", dt)
		assert.Equal(t, 0, s.Grid().Count(), "dt=%g", dt)
		assert.LessOrEqual(t, cap(s.samples), 64, "dt=%g: path is bounded by the lattice", dt)
	}
}

func TestHugeSidewaysVelocityStopsAtWall(t *testing.T) {
	s, _ := newSim(t, 10, 10)
	spawn(t, s, materials.Sand, 5, 5)
	s.Grid().ParticleAt(vmath.C(5, 5)).Velocity = vmath.V(1e19, 0)

	stats := s.Step(0)
	assert.Equal(t, 0, stats.Removed)
	p := s.Grid().ParticleAt(vmath.C(9, 5))
	require.NotNil(t, p, "grain stops against the right wall")
	assert.Equal(t, components.StateResting, p.State)
	assert.LessOrEqual(t, cap(s.samples), 64)
	require.NoError(t, s.Grid().Validate())
}

func TestShelfScenario(t *testing.T) {
	s, _ := newSim(t, 50, 50)
	for col := 5; col <= 14; col++ {
		spawn(t, s, materials.Stone, col, 20)
	}
	spawn(t, s, materials.Sand, 10, 0)

	for i := 0; i < 100; i++ {
		s.Step(1)
		require.NoError(t, s.Grid().Validate())
		for col := 0; col < 50; col++ {
			if p := s.Grid().ParticleAt(vmath.C(col, 20)); p != nil {
				assert.Same(t, materials.Stone, p.Material, "sand reached the shelf row at column %d", col)
			}
		}
	}

	p := s.Grid().ParticleAt(vmath.C(10, 19))
	require.NotNil(t, p, "sand should rest directly above the shelf")
	assert.Same(t, materials.Sand, p.Material)
	assert.Equal(t, vmath.Zero, p.Velocity)
	assert.Equal(t, 11, s.Grid().Count())
}

func TestPileKeepsOccupancyUnique(t *testing.T) {
	s, _ := newSim(t, 30, 30)
	for col := 0; col < 30; col++ {
		spawn(t, s, materials.Stone, col, 29)
	}

	for tick := 0; tick < 200; tick++ {
		if tick < 120 {
			if _, err := s.SpawnParticle(materials.Sand, vmath.C(15, 0)); err != nil {
				require.ErrorIs(t, err, ErrCellOccupied)
			}
		}
		s.Step(0.5)
		require.NoError(t, s.Grid().Validate())
	}

	sand := 0
	s.Grid().Each(func(_ ecs.Entity, cell vmath.Cell, p *components.Particle) {
		if p.Material == materials.Sand {
			sand++
			assert.Less(t, cell.Row, 29)
		}
	})
	assert.Greater(t, sand, 0)
}

func TestEachParticleSteppedOnce(t *testing.T) {
	rising := &materials.Material{Name: "smoke", Gravity: -2}
	s, _ := newSim(t, 10, 20)
	spawn(t, s, rising, 5, 10)

	stats := s.Step(1)
	assert.Equal(t, 1, stats.Stepped)
	assert.NotNil(t, s.Grid().ParticleAt(vmath.C(5, 8)), "moved up two rows, not re-stepped")
}

func TestRisingParticleStopsAtTop(t *testing.T) {
	rising := &materials.Material{Name: "smoke", Gravity: -4}
	s, _ := newSim(t, 4, 4)
	spawn(t, s, rising, 1, 1)

	s.Step(1) // path (1,0), (1,-1): top edge blocks
	p := s.Grid().ParticleAt(vmath.C(1, 0))
	require.NotNil(t, p)
	assert.Equal(t, vmath.Zero, p.Velocity)
}

func TestRestingParticleFallsWhenSupportRemoved(t *testing.T) {
	s, _ := newSim(t, 5, 10)
	spawn(t, s, materials.Stone, 1, 5)
	spawn(t, s, materials.Stone, 2, 5)
	spawn(t, s, materials.Stone, 3, 5)
	spawn(t, s, materials.Sand, 2, 4)

	s.Step(1)
	require.Equal(t, components.StateResting, s.Grid().ParticleAt(vmath.C(2, 4)).State)

	require.NoError(t, s.Erase(vmath.C(2, 5)))
	s.Step(1)
	p := s.Grid().ParticleAt(vmath.C(2, 6))
	require.NotNil(t, p)
	assert.Equal(t, components.StateFalling, p.State)
}

func TestDrawEmission(t *testing.T) {
	s, sink := newSim(t, 5, 10)
	spawn(t, s, materials.Sand, 1, 0)
	sink.reset()

	s.Step(1)
	assert.Equal(t, []write{
		{vmath.C(1, 0), white},
		{vmath.C(1, 2), materials.Sand.Color},
	}, sink.writes)
}

func TestRedrawPaintsEveryCell(t *testing.T) {
	s, sink := newSim(t, 3, 2)
	spawn(t, s, materials.Stone, 1, 1)
	sink.reset()

	s.Redraw()
	require.Len(t, sink.writes, 6)
	assert.Contains(t, sink.writes, write{vmath.C(1, 1), materials.Stone.Color})
	assert.Contains(t, sink.writes, write{vmath.C(0, 0), white})
}

func TestNegativeDeltaIsClamped(t *testing.T) {
	s, _ := newSim(t, 5, 5)
	spawn(t, s, materials.Sand, 2, 0)
	s.Step(-3)
	p := s.Grid().ParticleAt(vmath.C(2, 0))
	require.NotNil(t, p)
	assert.Equal(t, vmath.Zero, p.Velocity)
}

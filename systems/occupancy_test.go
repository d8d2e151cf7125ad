package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sandfall/components"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/vmath"
)

func TestInsertSetsPosition(t *testing.T) {
	g := NewOccupancyGrid(4, 3)

	e, err := g.Insert(components.NewParticle(materials.Sand), vmath.C(2, 1))
	require.NoError(t, err)

	pos, ok := g.Position(e)
	require.True(t, ok)
	assert.Equal(t, vmath.C(2, 1), pos)

	got, ok := g.Occupant(vmath.C(2, 1))
	require.True(t, ok)
	assert.Equal(t, e, got)
	assert.Equal(t, 1, g.Count())
	require.NoError(t, g.Validate())
}

func TestInsertErrors(t *testing.T) {
	g := NewOccupancyGrid(4, 3)
	_, err := g.Insert(components.NewParticle(materials.Sand), vmath.C(0, 0))
	require.NoError(t, err)

	tests := []struct {
		name string
		cell vmath.Cell
		want error
	}{
		{"occupied", vmath.C(0, 0), ErrCellOccupied},
		{"negative col", vmath.C(-1, 0), ErrOutOfBounds},
		{"col past width", vmath.C(4, 0), ErrOutOfBounds},
		{"row past height", vmath.C(0, 3), ErrOutOfBounds},
		{"negative row", vmath.C(0, -1), ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Insert(components.NewParticle(materials.Stone), tt.cell)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 1, g.Count())
}

func TestRemove(t *testing.T) {
	g := NewOccupancyGrid(4, 3)
	e, err := g.Insert(components.NewParticle(materials.Sand), vmath.C(1, 1))
	require.NoError(t, err)

	require.NoError(t, g.Remove(vmath.C(1, 1)))
	assert.Nil(t, g.ParticleAt(vmath.C(1, 1)))
	assert.Nil(t, g.Particle(e), "removed particle must be destroyed")
	assert.Equal(t, 0, g.Count())

	assert.ErrorIs(t, g.Remove(vmath.C(1, 1)), ErrEmptyCell)
	assert.ErrorIs(t, g.Remove(vmath.C(9, 9)), ErrOutOfBounds)
	require.NoError(t, g.Validate())
}

func TestOccupantOutOfBoundsNeverPanics(t *testing.T) {
	g := NewOccupancyGrid(2, 2)
	for _, c := range []vmath.Cell{vmath.C(-1, 0), vmath.C(0, -1), vmath.C(2, 0), vmath.C(0, 2), vmath.C(100, -100)} {
		_, ok := g.Occupant(c)
		assert.False(t, ok, "cell %v", c)
		assert.Nil(t, g.ParticleAt(c))
		assert.False(t, g.IsFree(c))
	}
}

func TestMoveParticle(t *testing.T) {
	g := NewOccupancyGrid(4, 4)
	e, err := g.Insert(components.NewParticle(materials.Sand), vmath.C(0, 0))
	require.NoError(t, err)
	_, err = g.Insert(components.NewParticle(materials.Stone), vmath.C(3, 3))
	require.NoError(t, err)

	require.NoError(t, g.MoveParticle(vmath.C(0, 0), vmath.C(1, 2)))
	got, ok := g.Occupant(vmath.C(1, 2))
	require.True(t, ok)
	assert.Equal(t, e, got, "move keeps entity identity")
	_, ok = g.Occupant(vmath.C(0, 0))
	assert.False(t, ok)

	assert.ErrorIs(t, g.MoveParticle(vmath.C(1, 2), vmath.C(3, 3)), ErrCellOccupied)
	assert.ErrorIs(t, g.MoveParticle(vmath.C(1, 2), vmath.C(4, 0)), ErrOutOfBounds)
	assert.ErrorIs(t, g.MoveParticle(vmath.C(0, 0), vmath.C(0, 1)), ErrEmptyCell)

	// Failed moves leave the particle where it was.
	pos, _ := g.Position(e)
	assert.Equal(t, vmath.C(1, 2), pos)
	require.NoError(t, g.Validate())
}

func TestEachAndClear(t *testing.T) {
	g := NewOccupancyGrid(5, 5)
	for col := 0; col < 5; col++ {
		_, err := g.Insert(components.NewParticle(materials.Sand), vmath.C(col, 4))
		require.NoError(t, err)
	}

	cells := map[vmath.Cell]bool{}
	g.Each(func(_ ecs.Entity, cell vmath.Cell, p *components.Particle) {
		assert.Same(t, materials.Sand, p.Material)
		cells[cell] = true
	})
	assert.Len(t, cells, 5)

	g.Clear()
	assert.Equal(t, 0, g.Count())
	require.NoError(t, g.Validate())
}

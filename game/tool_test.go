package game

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/systems"
	"github.com/pthm-cable/sandfall/vmath"
)

func newTool(t *testing.T, radius int) *SpawnTool {
	t.Helper()
	tool, err := NewSpawnTool(materials.Default(), "sand", radius, 4)
	require.NoError(t, err)
	return tool
}

func TestSpawnToolUnknownMaterial(t *testing.T) {
	_, err := NewSpawnTool(materials.Default(), "lava", 0, 4)
	assert.ErrorIs(t, err, materials.ErrUnknownMaterial)
}

func TestSpawnToolCyclesMaterials(t *testing.T) {
	tool := newTool(t, 0)
	n := len(tool.Names())
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, "sand", tool.Material().Name)

	tool.Next()
	assert.Equal(t, 1, tool.Index())
	tool.Prev()
	tool.Prev()
	assert.Equal(t, n-1, tool.Index(), "prev wraps to the last material")
	tool.Next()
	assert.Equal(t, 0, tool.Index(), "next wraps to the first material")
}

func TestSpawnToolRadiusClamped(t *testing.T) {
	tool := newTool(t, 2)
	for range 10 {
		tool.Grow()
	}
	assert.Equal(t, 4, tool.Radius())
	for range 10 {
		tool.Shrink()
	}
	assert.Equal(t, 0, tool.Radius())
}

func TestFootprint(t *testing.T) {
	tests := []struct {
		radius int
		want   int
	}{
		{0, 1},
		{1, 5},
		{2, 13},
	}
	for _, tt := range tests {
		tool := newTool(t, tt.radius)
		cells := tool.Footprint(vmath.C(5, 5))
		assert.Len(t, cells, tt.want, "radius %d", tt.radius)
		assert.Contains(t, cells, vmath.C(5, 5))
	}
}

func TestPaintAndErase(t *testing.T) {
	sim := systems.NewSimulator(systems.NewOccupancyGrid(10, 10), nil, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	tool := newTool(t, 1)

	// Corner footprint loses the two cells outside the lattice
	n, err := tool.Paint(sim, vmath.C(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, sim.Grid().Count())

	// Occupied cells are skipped
	n, err = tool.Paint(sim, vmath.C(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, 3, tool.Erase(sim, vmath.C(0, 0)))
	assert.Equal(t, 0, sim.Grid().Count())
	assert.Equal(t, 0, tool.Erase(sim, vmath.C(0, 0)))
}

func TestMoveCursorClamps(t *testing.T) {
	tool := newTool(t, 0)
	_, ok := tool.Cursor()
	assert.False(t, ok)

	tool.MoveCursor(0, 1, 20, 10)
	c, ok := tool.Cursor()
	require.True(t, ok)
	assert.Equal(t, vmath.C(10, 1), c, "starts at top center")

	tool.MoveCursor(-100, 100, 20, 10)
	c, _ = tool.Cursor()
	assert.Equal(t, vmath.C(0, 9), c)

	tool.HideCursor()
	_, ok = tool.Cursor()
	assert.False(t, ok)
}

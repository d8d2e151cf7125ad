package game

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sandfall/config"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/systems"
	"github.com/pthm-cable/sandfall/vmath"
)

func cellAt(col, row int) config.CellConfig {
	return config.CellConfig{Col: col, Row: row}
}

func TestSeedCells(t *testing.T) {
	tests := []struct {
		name string
		seed config.SeedConfig
		want []vmath.Cell
	}{
		{
			name: "single cell",
			seed: config.SeedConfig{Shape: config.ShapeCell, From: cellAt(3, 4)},
			want: []vmath.Cell{vmath.C(3, 4)},
		},
		{
			name: "horizontal line includes both ends",
			seed: config.SeedConfig{Shape: config.ShapeLine, From: cellAt(1, 0), To: cellAt(4, 0)},
			want: []vmath.Cell{vmath.C(1, 0), vmath.C(2, 0), vmath.C(3, 0), vmath.C(4, 0)},
		},
		{
			name: "rect normalizes corners",
			seed: config.SeedConfig{Shape: config.ShapeRect, From: cellAt(2, 1), To: cellAt(1, 0)},
			want: []vmath.Cell{vmath.C(1, 0), vmath.C(2, 0), vmath.C(1, 1), vmath.C(2, 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SeedCells(tt.seed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeedCellsUnknownShape(t *testing.T) {
	_, err := SeedCells(config.SeedConfig{Shape: "circle"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSeedSceneCountsSkipped(t *testing.T) {
	sim := systems.NewSimulator(systems.NewOccupancyGrid(10, 10), nil, color.RGBA{A: 255})
	table := materials.Default()

	r, err := SeedScene(sim, table, []config.SeedConfig{
		{Material: "stone", Shape: config.ShapeLine, From: cellAt(0, 5), To: cellAt(9, 5)},
		// Overlaps the stone line and runs off the right edge
		{Material: "sand", Shape: config.ShapeLine, From: cellAt(5, 5), To: cellAt(12, 5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, r.Placed)
	assert.Equal(t, 8, r.Skipped)
	assert.Equal(t, 10, sim.Grid().Count())
	assert.NoError(t, sim.Grid().Validate())
}

func TestSeedSceneUnknownMaterial(t *testing.T) {
	sim := systems.NewSimulator(systems.NewOccupancyGrid(10, 10), nil, color.RGBA{A: 255})
	_, err := SeedScene(sim, materials.Default(), []config.SeedConfig{{Material: "lava"}})
	assert.ErrorIs(t, err, materials.ErrUnknownMaterial)
}

func TestTerrainHeights(t *testing.T) {
	cfg := config.TerrainConfig{Seed: 7, Scale: 0.05, Octaves: 3, Base: 2, Amplitude: 10}

	a := TerrainHeights(cfg, 64, 40)
	b := TerrainHeights(cfg, 64, 40)
	require.Len(t, a, 64)
	assert.Equal(t, a, b, "same seed gives the same terrain")

	for col, h := range a {
		assert.GreaterOrEqual(t, h, 2, "column %d", col)
		assert.LessOrEqual(t, h, 12, "column %d", col)
	}

	// Heights never exceed the lattice
	cfg.Base = 100
	for _, h := range TerrainHeights(cfg, 8, 40) {
		assert.Equal(t, 40, h)
	}
}

func TestSeedTerrainFillsColumns(t *testing.T) {
	sim := systems.NewSimulator(systems.NewOccupancyGrid(16, 20), nil, color.RGBA{A: 255})
	cfg := config.TerrainConfig{Enabled: true, Material: "stone", Seed: 3, Scale: 0.1, Octaves: 2, Base: 1, Amplitude: 5}

	r, err := SeedTerrain(sim, materials.Default(), cfg)
	require.NoError(t, err)

	total := 0
	for col, h := range TerrainHeights(cfg, 16, 20) {
		total += h
		// Bottom cell of every non-empty column is stone
		if h > 0 {
			p := sim.Grid().ParticleAt(vmath.C(col, 19))
			require.NotNil(t, p, "column %d", col)
			assert.Equal(t, "stone", p.Material.Name)
		}
	}
	assert.Equal(t, total, r.Placed)

	cfg.Enabled = false
	r, err = SeedTerrain(sim, materials.Default(), cfg)
	require.NoError(t, err)
	assert.Zero(t, r.Placed)
}

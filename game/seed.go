package game

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/sandfall/config"
	"github.com/pthm-cable/sandfall/materials"
	"github.com/pthm-cable/sandfall/systems"
	"github.com/pthm-cable/sandfall/vmath"
)

// SeedResult counts what a seeding pass did.
type SeedResult struct {
	Placed  int // particles spawned
	Skipped int // cells already occupied or off the lattice
}

func (r *SeedResult) add(o SeedResult) {
	r.Placed += o.Placed
	r.Skipped += o.Skipped
}

// SeedCells returns the cells a seed placement covers. Lines and rects
// include both end points.
func SeedCells(seed config.SeedConfig) ([]vmath.Cell, error) {
	from := vmath.C(seed.From.Col, seed.From.Row)
	to := vmath.C(seed.To.Col, seed.To.Row)

	switch strings.ToLower(seed.Shape) {
	case config.ShapeCell, "":
		return []vmath.Cell{from}, nil
	case config.ShapeLine:
		return vmath.SampleLineInto([]vmath.Cell{from}, from, to), nil
	case config.ShapeRect:
		c0, c1 := min(from.Col, to.Col), max(from.Col, to.Col)
		r0, r1 := min(from.Row, to.Row), max(from.Row, to.Row)
		cells := make([]vmath.Cell, 0, (c1-c0+1)*(r1-r0+1))
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				cells = append(cells, vmath.C(col, row))
			}
		}
		return cells, nil
	}
	return nil, fmt.Errorf("%w: unknown seed shape %q", config.ErrInvalidConfig, seed.Shape)
}

// SeedScene places every configured seed.
func SeedScene(sim *systems.Simulator, table *materials.Table, seeds []config.SeedConfig) (SeedResult, error) {
	var total SeedResult
	for i, seed := range seeds {
		m, err := table.Resolve(seed.Material)
		if err != nil {
			return total, fmt.Errorf("seed %d: %w", i, err)
		}
		cells, err := SeedCells(seed)
		if err != nil {
			return total, fmt.Errorf("seed %d: %w", i, err)
		}
		r, err := place(sim, m, cells)
		total.add(r)
		if err != nil {
			return total, fmt.Errorf("seed %d: %w", i, err)
		}
	}
	return total, nil
}

// TerrainHeights returns the terrain column heights in cells for a lattice
// of the given width and height. Heights come from fractal opensimplex
// noise along the columns.
func TerrainHeights(cfg config.TerrainConfig, width, height int) []int {
	noise := opensimplex.NewNormalized(cfg.Seed)
	octaves := max(cfg.Octaves, 1)

	heights := make([]int, width)
	for col := range heights {
		var sum, norm float64
		amp, freq := 1.0, 1.0
		for o := 0; o < octaves; o++ {
			sum += amp * noise.Eval2(float64(col)*cfg.Scale*freq, float64(o)*17)
			norm += amp
			amp *= 0.5
			freq *= 2
		}
		h := cfg.Base + int(math.Round(float64(cfg.Amplitude)*sum/norm))
		heights[col] = max(0, min(h, height))
	}
	return heights
}

// SeedTerrain fills each column from the bottom up to its terrain height.
func SeedTerrain(sim *systems.Simulator, table *materials.Table, cfg config.TerrainConfig) (SeedResult, error) {
	if !cfg.Enabled {
		return SeedResult{}, nil
	}
	m, err := table.Resolve(cfg.Material)
	if err != nil {
		return SeedResult{}, fmt.Errorf("terrain: %w", err)
	}
	grid := sim.Grid()
	heights := TerrainHeights(cfg, grid.Width(), grid.Height())

	var cells []vmath.Cell
	for col, h := range heights {
		for row := grid.Height() - h; row < grid.Height(); row++ {
			cells = append(cells, vmath.C(col, row))
		}
	}
	r, err := place(sim, m, cells)
	if err != nil {
		return r, fmt.Errorf("terrain: %w", err)
	}
	return r, nil
}

func place(sim *systems.Simulator, m *materials.Material, cells []vmath.Cell) (SeedResult, error) {
	var r SeedResult
	for _, cell := range cells {
		_, err := sim.SpawnParticle(m, cell)
		switch {
		case err == nil:
			r.Placed++
		case errors.Is(err, systems.ErrCellOccupied), errors.Is(err, systems.ErrOutOfBounds):
			r.Skipped++
		default:
			return r, err
		}
	}
	return r, nil
}

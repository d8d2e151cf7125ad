package vmath

import "math"

// SampleLine returns the lattice cells on the straight path from `from` to `to`.
// It steps one unit at a time along the axis with the larger absolute delta and
// interpolates the other axis proportionally, rounding to the nearest cell.
// The start cell is excluded and the end cell is included, so a zero
// displacement produces no samples.
func SampleLine(from, to Cell) []Cell {
	return SampleLineInto(nil, from, to)
}

// SampleLineInto is SampleLine appending into dst. Reuse dst across calls to
// avoid allocating on every tick.
func SampleLineInto(dst []Cell, from, to Cell) []Cell {
	dc := to.Col - from.Col
	dr := to.Row - from.Row

	steps := absInt(dc)
	if r := absInt(dr); r > steps {
		steps = r
	}
	if steps == 0 {
		return dst
	}

	stepC := float64(dc) / float64(steps)
	stepR := float64(dr) / float64(steps)
	for i := 1; i <= steps; i++ {
		dst = append(dst, Cell{
			Col: from.Col + int(math.Round(stepC*float64(i))),
			Row: from.Row + int(math.Round(stepR*float64(i))),
		})
	}
	return dst
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	assert.Equal(t, V(4, 2), a.Add(b))
	assert.Equal(t, V(2, 6), a.Sub(b))
	assert.Equal(t, V(6, 8), a.Scale(2))
	assert.Equal(t, 5.0, a.Magnitude())
	assert.Equal(t, -5.0, a.Dot(b))
}

func TestVec2Div(t *testing.T) {
	got, err := V(3, 4).Div(2)
	require.NoError(t, err)
	assert.Equal(t, V(1.5, 2), got)

	_, err = V(3, 4).Div(0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestVec2Normalize(t *testing.T) {
	n := V(3, 4).Normalize()
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)
	assert.InDelta(t, 1.0, n.Magnitude(), 1e-12)

	assert.Equal(t, Zero, Zero.Normalize())
}

func TestVec2Trunc(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want Cell
	}{
		{"positive", V(1.9, 2.99), C(1, 2)},
		{"negative toward zero", V(-1.9, -0.5), C(-1, 0)},
		{"below one", V(0.4, 0.999), C(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Trunc())
		})
	}
}

func TestVec2TruncWithin(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want Cell
	}{
		{"inside limit", V(3.7, -2.2), C(3, -2)},
		{"vertical", V(0, 2.5e7), C(0, 11)},
		{"past int range", V(0, 1e19), C(0, 11)},
		{"direction kept", V(-4e10, 8e10), C(-5, 11)},
		{"infinite", V(math.Inf(1), 1), C(11, 0)},
		{"nan", V(math.NaN(), -30), C(0, -11)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.TruncWithin(11))
		})
	}
}

func TestCellHelpers(t *testing.T) {
	c := C(4, 7)
	assert.Equal(t, C(4, 8), c.Below())
	assert.Equal(t, C(5, 8), c.Offset(1, 1))
	assert.Equal(t, C(6, 5), c.Add(C(2, -2)))
	assert.Equal(t, V(4, 7), c.Vec())
	assert.Equal(t, "(4,7)", c.String())
}

func TestSampleLine(t *testing.T) {
	tests := []struct {
		name     string
		from, to Cell
		want     []Cell
	}{
		{"zero displacement", C(2, 2), C(2, 2), nil},
		{"straight down", C(5, 0), C(5, 3), []Cell{C(5, 1), C(5, 2), C(5, 3)}},
		{"straight left", C(5, 5), C(3, 5), []Cell{C(4, 5), C(3, 5)}},
		{"diagonal", C(0, 0), C(2, 2), []Cell{C(1, 1), C(2, 2)}},
		{"steep", C(0, 0), C(1, 4), []Cell{C(0, 1), C(1, 2), C(1, 3), C(1, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SampleLine(tt.from, tt.to))
		})
	}
}

func TestSampleLineEndsAtTarget(t *testing.T) {
	for dc := -6; dc <= 6; dc++ {
		for dr := -6; dr <= 6; dr++ {
			from := C(10, 10)
			to := from.Offset(dc, dr)
			pts := SampleLine(from, to)
			if dc == 0 && dr == 0 {
				assert.Empty(t, pts)
				continue
			}
			require.NotEmpty(t, pts)
			assert.Equal(t, to, pts[len(pts)-1])

			// Consecutive samples are 8-connected.
			prev := from
			for _, p := range pts {
				assert.LessOrEqual(t, math.Abs(float64(p.Col-prev.Col)), 1.0)
				assert.LessOrEqual(t, math.Abs(float64(p.Row-prev.Row)), 1.0)
				prev = p
			}
		}
	}
}

func TestSampleLineIntoReusesBuffer(t *testing.T) {
	buf := make([]Cell, 0, 8)
	buf = SampleLineInto(buf[:0], C(0, 0), C(0, 3))
	assert.Len(t, buf, 3)
	buf = SampleLineInto(buf[:0], C(0, 0), C(2, 0))
	assert.Equal(t, []Cell{C(1, 0), C(2, 0)}, buf)
}

// Package vmath provides the small amount of 2D arithmetic the simulation needs:
// a real-valued vector, an integer lattice cell, and a digital line sampler.
package vmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrDivisionByZero is returned when a vector is divided by zero.
var ErrDivisionByZero = errors.New("vmath: division by zero")

// Vec2 is a real-valued 2D vector. All methods return new values.
type Vec2 struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec2{}

// V returns the vector (x, y).
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// String implements fmt.Stringer.
func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y)
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Div returns v / k. Dividing by zero fails with ErrDivisionByZero.
func (v Vec2) Div(k float64) (Vec2, error) {
	if k == 0 {
		return Zero, ErrDivisionByZero
	}
	return Vec2{X: v.X / k, Y: v.Y / k}, nil
}

// Magnitude returns the Euclidean length of v.
func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	mag := v.Magnitude()
	if mag == 0 {
		return Zero
	}
	return Vec2{X: v.X / mag, Y: v.Y / mag}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Trunc converts v to a cell offset, truncating each component toward zero.
func (v Vec2) Trunc() Cell {
	return Cell{Col: int(v.X), Row: int(v.Y)}
}

// TruncWithin is Trunc after scaling v down, direction kept, so neither
// component exceeds limit in magnitude. NaN components count as zero and
// infinities as the largest finite value.
func (v Vec2) TruncWithin(limit int) Cell {
	x, y := finite(v.X), finite(v.Y)
	lim := float64(limit)
	switch {
	case math.Abs(x) >= math.Abs(y) && math.Abs(x) > lim:
		y = y / math.Abs(x) * lim
		x = math.Copysign(lim, x)
	case math.Abs(y) > math.Abs(x) && math.Abs(y) > lim:
		x = x / math.Abs(y) * lim
		y = math.Copysign(lim, y)
	}
	return Vec2{X: x, Y: y}.Trunc()
}

func finite(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

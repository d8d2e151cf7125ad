// Package renderer implements display sinks: a CPU pixel buffer, a raylib
// texture canvas and a tcell terminal view.
package renderer

import (
	"image/color"

	"github.com/pthm-cable/sandfall/vmath"
)

// Frame is a CPU-side RGBA buffer with one pixel per lattice cell, laid out
// row-major. It implements systems.DisplaySink and tracks whether it has
// changed since the last upload.
type Frame struct {
	width, height int
	pixels        []color.RGBA
	dirty         bool
	writes        int
}

// NewFrame creates a frame filled with bg.
func NewFrame(width, height int, bg color.RGBA) *Frame {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	f := &Frame{
		width:  width,
		height: height,
		pixels: make([]color.RGBA, width*height),
	}
	f.Fill(bg)
	return f
}

// WriteCell implements systems.DisplaySink. Cells outside the frame are
// dropped.
func (f *Frame) WriteCell(cell vmath.Cell, c color.RGBA) {
	if cell.Col < 0 || cell.Col >= f.width || cell.Row < 0 || cell.Row >= f.height {
		return
	}
	f.pixels[cell.Row*f.width+cell.Col] = c
	f.dirty = true
	f.writes++
}

// At returns the color stored for cell, or transparent black outside the frame.
func (f *Frame) At(cell vmath.Cell) color.RGBA {
	if cell.Col < 0 || cell.Col >= f.width || cell.Row < 0 || cell.Row >= f.height {
		return color.RGBA{}
	}
	return f.pixels[cell.Row*f.width+cell.Col]
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c color.RGBA) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
	f.dirty = true
}

// Pixels returns the backing buffer. Callers must not retain it across writes.
func (f *Frame) Pixels() []color.RGBA { return f.pixels }

// Width returns the frame width in cells.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in cells.
func (f *Frame) Height() int { return f.height }

// Dirty reports whether the frame changed since the last MarkClean.
func (f *Frame) Dirty() bool { return f.dirty }

// MarkClean resets the dirty flag and the write counter.
func (f *Frame) MarkClean() {
	f.dirty = false
	f.writes = 0
}

// Writes returns the number of cell writes since the last MarkClean.
func (f *Frame) Writes() int { return f.writes }

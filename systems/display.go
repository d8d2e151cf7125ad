package systems

import (
	"image/color"

	"github.com/pthm-cable/sandfall/vmath"
)

// DisplaySink receives per-cell color writes. Writes are fire-and-forget and
// may arrive up to O(width*height) times per tick; there is no read-back.
type DisplaySink interface {
	WriteCell(cell vmath.Cell, c color.RGBA)
}

// DiscardSink drops every write.
type DiscardSink struct{}

// WriteCell implements DisplaySink.
func (DiscardSink) WriteCell(vmath.Cell, color.RGBA) {}

// MultiSink fans writes out to several sinks in order.
type MultiSink []DisplaySink

// WriteCell implements DisplaySink.
func (m MultiSink) WriteCell(cell vmath.Cell, c color.RGBA) {
	for _, s := range m {
		s.WriteCell(cell, c)
	}
}

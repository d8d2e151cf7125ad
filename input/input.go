// Package input turns keyboard, mouse and scripted events into per-tick
// signal sets for the spawn tool and game loop.
package input

import (
	"strings"

	"github.com/pthm-cable/sandfall/vmath"
)

// Signal is one control signal. Several may be active in the same tick.
type Signal uint16

const (
	SignalLeft Signal = 1 << iota
	SignalRight
	SignalUp
	SignalDown
	SignalSpawn
	SignalErase
	SignalNextMaterial
	SignalPrevMaterial
	SignalBrushUp
	SignalBrushDown
	SignalPause
	SignalStep
	SignalQuit
	SignalResize
)

var signalNames = []struct {
	sig  Signal
	name string
}{
	{SignalLeft, "left"},
	{SignalRight, "right"},
	{SignalUp, "up"},
	{SignalDown, "down"},
	{SignalSpawn, "spawn"},
	{SignalErase, "erase"},
	{SignalNextMaterial, "next"},
	{SignalPrevMaterial, "prev"},
	{SignalBrushUp, "brush+"},
	{SignalBrushDown, "brush-"},
	{SignalPause, "pause"},
	{SignalStep, "step"},
	{SignalQuit, "quit"},
	{SignalResize, "resize"},
}

// String returns the space-separated names of the set signals.
func (s Signal) String() string {
	var parts []string
	for _, n := range signalNames {
		if s&n.sig != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, " ")
}

// SignalByName returns the signal with the given name.
func SignalByName(name string) (Signal, bool) {
	for _, n := range signalNames {
		if n.name == name {
			return n.sig, true
		}
	}
	return 0, false
}

// Signals is the input state for one tick.
type Signals struct {
	Active Signal

	// Pointer is the lattice cell under the mouse, valid when HasPointer.
	Pointer    vmath.Cell
	HasPointer bool
}

// Has reports whether sig is active.
func (s Signals) Has(sig Signal) bool {
	return s.Active&sig != 0
}

// Merge combines two signal sets. The later pointer wins.
func (s Signals) Merge(o Signals) Signals {
	s.Active |= o.Active
	if o.HasPointer {
		s.Pointer = o.Pointer
		s.HasPointer = true
	}
	return s
}

// Source is polled once per tick.
type Source interface {
	Poll() Signals
}

// None is a Source that never reports anything.
type None struct{}

// Poll implements Source.
func (None) Poll() Signals { return Signals{} }

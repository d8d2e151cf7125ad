package input

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandfall/vmath"
)

// PointMapper maps a screen position in pixels to a lattice cell.
type PointMapper func(screen rl.Vector2) (vmath.Cell, bool)

// Raylib polls the raylib window for keyboard and mouse state. It must be
// polled on the thread that owns the window.
type Raylib struct {
	toCell PointMapper
	// Captured reports positions owned by UI widgets; mouse buttons over
	// them do not spawn or erase.
	Captured func(screen rl.Vector2) bool
}

// NewRaylib creates a raylib input source.
func NewRaylib(toCell PointMapper) *Raylib {
	return &Raylib{toCell: toCell}
}

// Poll implements Source.
func (r *Raylib) Poll() Signals {
	var s Signals

	// Held keys
	held := []struct {
		key int32
		sig Signal
	}{
		{rl.KeyLeft, SignalLeft},
		{rl.KeyRight, SignalRight},
		{rl.KeyUp, SignalUp},
		{rl.KeyDown, SignalDown},
	}
	for _, h := range held {
		if rl.IsKeyDown(h.key) {
			s.Active |= h.sig
		}
	}

	// Edge-triggered keys
	pressed := []struct {
		key int32
		sig Signal
	}{
		{rl.KeyTab, SignalNextMaterial},
		{rl.KeyRightBracket, SignalNextMaterial},
		{rl.KeyLeftBracket, SignalPrevMaterial},
		{rl.KeyEqual, SignalBrushUp},
		{rl.KeyKpAdd, SignalBrushUp},
		{rl.KeyMinus, SignalBrushDown},
		{rl.KeyKpSubtract, SignalBrushDown},
		{rl.KeySpace, SignalPause},
		{rl.KeyN, SignalStep},
		{rl.KeyQ, SignalQuit},
	}
	for _, p := range pressed {
		if rl.IsKeyPressed(p.key) {
			s.Active |= p.sig
		}
	}
	if rl.IsWindowResized() {
		s.Active |= SignalResize
	}

	mouse := rl.GetMousePosition()
	if r.Captured != nil && r.Captured(mouse) {
		return s
	}
	if r.toCell != nil {
		s.Pointer, s.HasPointer = r.toCell(mouse)
	}
	if !s.HasPointer {
		return s
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		s.Active |= SignalSpawn
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) || rl.IsKeyDown(rl.KeyX) {
		s.Active |= SignalErase
	}
	return s
}

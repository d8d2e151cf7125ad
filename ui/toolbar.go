package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ToolbarAction is what the user clicked on the toolbar this frame.
type ToolbarAction struct {
	Select    int // material index, -1 when none was clicked
	Pause     bool
	Step      bool
	BrushUp   bool
	BrushDown bool
	Clear     bool
}

// None reports whether nothing was clicked.
func (a ToolbarAction) None() bool {
	return a == ToolbarAction{Select: -1}
}

// MaterialButton is one material entry on the toolbar.
type MaterialButton struct {
	Name  string
	Color rl.Color
}

// Toolbar is a row of raygui buttons: one per material, then the run
// controls.
type Toolbar struct {
	renderer *Renderer
	X, Y     float32
	ButtonW  float32
	ButtonH  float32
	Gap      float32

	materials []MaterialButton
}

// Indexes of the control buttons after the material buttons.
const (
	toolPause = iota
	toolStep
	toolBrushDown
	toolBrushUp
	toolClear
	toolCount
)

// NewToolbar creates a toolbar anchored at (x, y).
func NewToolbar(x, y float32, materials []MaterialButton) *Toolbar {
	return &Toolbar{
		renderer:  NewRenderer(),
		X:         x,
		Y:         y,
		ButtonW:   72,
		ButtonH:   24,
		Gap:       4,
		materials: materials,
	}
}

// Layout returns the button rectangles: materials first, then pause, step,
// brush down, brush up and clear.
func (t *Toolbar) Layout() []rl.Rectangle {
	n := len(t.materials) + toolCount
	rects := make([]rl.Rectangle, n)
	x := t.X + t.Gap
	for i := range rects {
		w := t.ButtonW
		if i >= len(t.materials)+toolBrushDown && i < len(t.materials)+toolClear {
			w = t.ButtonH
		}
		rects[i] = rl.Rectangle{X: x, Y: t.Y + t.Gap, Width: w, Height: t.ButtonH}
		x += w + t.Gap
	}
	return rects
}

// Bounds returns the rectangle covered by the toolbar background.
func (t *Toolbar) Bounds() rl.Rectangle {
	rects := t.Layout()
	last := rects[len(rects)-1]
	return rl.Rectangle{
		X:      t.X,
		Y:      t.Y,
		Width:  last.X + last.Width + t.Gap - t.X,
		Height: t.ButtonH + 2*t.Gap,
	}
}

// Captured reports whether a screen position falls on the toolbar.
func (t *Toolbar) Captured(p rl.Vector2) bool {
	return contains(t.Bounds(), p)
}

// Draw renders the toolbar and returns the buttons pressed this frame.
// selected is the index of the active material.
func (t *Toolbar) Draw(selected, brush int, paused bool) ToolbarAction {
	action := ToolbarAction{Select: -1}
	b := t.Bounds()
	t.renderer.DrawPanel(int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height))

	rects := t.Layout()
	for i, m := range t.materials {
		r := rects[i]
		if gui.Button(r, m.Name) {
			action.Select = i
		}
		rl.DrawRectangle(int32(r.X)+3, int32(r.Y)+3, 6, int32(r.Height)-6, m.Color)
		if i == selected {
			rl.DrawRectangleLinesEx(r, 2, t.renderer.Theme.Highlight)
		}
	}

	ctl := rects[len(t.materials):]
	if gui.Button(ctl[toolPause], toggleText(paused, "Resume", "Pause")) {
		action.Pause = true
	}
	if gui.Button(ctl[toolStep], "Step") {
		action.Step = true
	}
	if gui.Button(ctl[toolBrushDown], "-") {
		action.BrushDown = true
	}
	if gui.Button(ctl[toolBrushUp], "+") {
		action.BrushUp = true
	}
	if gui.Button(ctl[toolClear], "Clear") {
		action.Clear = true
	}

	rl.DrawText(fmt.Sprintf("brush %d", brush), int32(b.X+b.Width)+6, int32(b.Y+t.Gap)+6, t.renderer.Theme.FontSize, t.renderer.Theme.LabelColor)
	return action
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

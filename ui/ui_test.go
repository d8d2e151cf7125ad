package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToolbar() *Toolbar {
	return NewToolbar(10, 20, []MaterialButton{
		{Name: "sand", Color: rl.Color{R: 235, G: 177, B: 52, A: 255}},
		{Name: "stone", Color: rl.Color{R: 82, G: 84, B: 87, A: 255}},
	})
}

func TestToolbarLayout(t *testing.T) {
	tb := testToolbar()
	rects := tb.Layout()
	require.Len(t, rects, 2+toolCount)

	// Buttons run left to right without overlapping
	for i := 1; i < len(rects); i++ {
		assert.Greater(t, rects[i].X, rects[i-1].X+rects[i-1].Width-0.001, "button %d overlaps", i)
		assert.Equal(t, tb.Y+tb.Gap, rects[i].Y)
	}
	assert.Equal(t, float32(14), rects[0].X)

	// Brush buttons are square
	brushDown := rects[2+toolBrushDown]
	assert.Equal(t, brushDown.Height, brushDown.Width)
	assert.Equal(t, tb.ButtonW, rects[2+toolClear].Width)
}

func TestToolbarCaptured(t *testing.T) {
	tb := testToolbar()
	b := tb.Bounds()

	assert.True(t, tb.Captured(rl.Vector2{X: 15, Y: 25}))
	assert.True(t, tb.Captured(rl.Vector2{X: b.X + b.Width - 1, Y: b.Y + b.Height - 1}))
	assert.False(t, tb.Captured(rl.Vector2{X: b.X + b.Width, Y: 25}))
	assert.False(t, tb.Captured(rl.Vector2{X: 15, Y: 19}))
}

func TestToolbarActionNone(t *testing.T) {
	assert.True(t, ToolbarAction{Select: -1}.None())
	assert.False(t, ToolbarAction{Select: 0}.None())
	assert.False(t, ToolbarAction{Select: -1, Step: true}.None())
}

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()
	assert.True(t, reg.IsEnabled(OverlayHUD))
	assert.True(t, reg.IsEnabled(OverlayToolbar))
	assert.False(t, reg.IsEnabled(OverlayGrid))
	assert.Equal(t, []string{"display", "debug"}, reg.Categories())
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	reg.SetEnabled(OverlayPerf, true)
	assert.True(t, reg.Toggle(OverlayInspector))
	assert.False(t, reg.IsEnabled(OverlayPerf), "inspector and perf share a slot")

	id, state, ok := reg.HandleKeyPress(rl.KeyF)
	require.True(t, ok)
	assert.Equal(t, OverlayPerf, id)
	assert.True(t, state)
	assert.False(t, reg.IsEnabled(OverlayInspector))

	_, _, ok = reg.HandleKeyPress(rl.KeyZ)
	assert.False(t, ok)
}

func TestControlsPanelRows(t *testing.T) {
	reg := NewOverlayRegistry()
	c := NewControlsPanel(10, 100, 230)
	rows := c.Layout(reg)
	require.Len(t, rows, len(reg.All())+len(reg.Categories()))

	assert.Equal(t, "Display", rows[0].Header)
	assert.Equal(t, OverlayHUD, rows[1].Overlay)
	var debugAt int
	for i, row := range rows {
		if row.Header == "Debug" {
			debugAt = i
		}
		if i > 0 {
			assert.GreaterOrEqual(t, row.Bounds.Y, rows[i-1].Bounds.Y+rows[i-1].Bounds.Height, "row %d overlaps", i)
		}
	}
	assert.Equal(t, 5, debugAt, "four display overlays precede the debug header")

	b := c.Bounds(reg)
	last := rows[len(rows)-1].Bounds
	assert.Greater(t, b.Y+b.Height, last.Y+last.Height)
}

func TestControlsPanelClickToggles(t *testing.T) {
	reg := NewOverlayRegistry()
	c := NewControlsPanel(10, 100, 230)

	var grid ControlRow
	for _, row := range c.Layout(reg) {
		if row.Overlay == OverlayGrid {
			grid = row
		}
	}
	p := rl.Vector2{X: grid.Bounds.X + 5, Y: grid.Bounds.Y + 5}

	_, _, ok := c.ToggleAt(p, reg)
	assert.False(t, ok, "hidden panel ignores clicks")
	assert.False(t, c.Captured(p, reg))

	c.SetVisible(true)
	assert.True(t, c.Captured(p, reg))
	id, enabled, ok := c.ToggleAt(p, reg)
	require.True(t, ok)
	assert.Equal(t, OverlayGrid, id)
	assert.True(t, enabled)
	assert.True(t, reg.IsEnabled(OverlayGrid))

	_, _, ok = c.ToggleAt(rl.Vector2{X: 500, Y: 5}, reg)
	assert.False(t, ok)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, float32(0), clamp01(-1))
	assert.Equal(t, float32(0.5), clamp01(0.5))
	assert.Equal(t, float32(1), clamp01(3))
}

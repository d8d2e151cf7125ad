package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandfall/vmath"
)

// Canvas draws the lattice as a single texture with one texel per cell.
// Writes land in a CPU Frame and are uploaded once per frame in Sync.
type Canvas struct {
	frame       *Frame
	tex         rl.Texture2D
	initialized bool
}

// NewCanvas creates a canvas for a width × height lattice cleared to bg.
func NewCanvas(width, height int, bg color.RGBA) *Canvas {
	return &Canvas{frame: NewFrame(width, height, bg)}
}

// Init creates the GPU texture (must be called after raylib window is created).
func (c *Canvas) Init() {
	if c.initialized {
		return
	}

	img := rl.GenImageColor(c.frame.Width(), c.frame.Height(), rl.White)
	c.tex = rl.LoadTextureFromImage(img)
	// Nearest filtering keeps cells crisp when zoomed
	rl.SetTextureFilter(c.tex, rl.FilterPoint)
	rl.UnloadImage(img)

	c.initialized = true
	c.frame.dirty = true
}

// WriteCell implements systems.DisplaySink.
func (c *Canvas) WriteCell(cell vmath.Cell, col color.RGBA) {
	c.frame.WriteCell(cell, col)
}

// Frame returns the CPU-side buffer.
func (c *Canvas) Frame() *Frame { return c.frame }

// Sync uploads the frame to the GPU if it changed.
func (c *Canvas) Sync() {
	if !c.initialized || !c.frame.Dirty() {
		return
	}
	rl.UpdateTexture(c.tex, c.frame.Pixels())
	c.frame.MarkClean()
}

// Draw renders the lattice into dst (screen pixels).
func (c *Canvas) Draw(dst rl.Rectangle) {
	if !c.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(c.frame.Width()), Height: float32(c.frame.Height())}
	rl.DrawTexturePro(c.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (c *Canvas) Unload() {
	if !c.initialized {
		return
	}
	rl.UnloadTexture(c.tex)
	c.initialized = false
}

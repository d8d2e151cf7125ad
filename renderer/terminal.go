package renderer

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/sandfall/vmath"
)

// upperHalf packs two lattice rows into one terminal row: the foreground
// paints the upper cell and the background the lower one.
const upperHalf = '▀'

// Terminal draws the lattice on a tcell screen, two rows per character.
// Writes are buffered in a Frame and flushed by Show.
type Terminal struct {
	screen tcell.Screen
	frame  *Frame

	// Offset of the lattice origin on screen, in terminal cells
	offX, offY int
	// First lattice cell shown at the offset (scrolling)
	viewCol, viewRow int
}

// NewTerminal creates a terminal sink for a width × height lattice. The
// screen must already be initialized.
func NewTerminal(screen tcell.Screen, width, height int, bg color.RGBA) *Terminal {
	return &Terminal{
		screen: screen,
		frame:  NewFrame(width, height, bg),
	}
}

// WriteCell implements systems.DisplaySink.
func (t *Terminal) WriteCell(cell vmath.Cell, c color.RGBA) {
	t.frame.WriteCell(cell, c)
}

// Frame returns the buffered lattice colors.
func (t *Terminal) Frame() *Frame { return t.frame }

// SetOffset positions the lattice on screen.
func (t *Terminal) SetOffset(x, y int) {
	t.offX, t.offY = x, y
}

// ScrollTo sets the top-left lattice cell shown. Row is rounded down to an
// even row so half-block pairs stay aligned.
func (t *Terminal) ScrollTo(col, row int) {
	t.viewCol = clamp(col, 0, t.frame.Width()-1)
	t.viewRow = clamp(row, 0, t.frame.Height()-1) &^ 1
	t.frame.dirty = true
}

// Follow scrolls the view so cell is visible.
func (t *Terminal) Follow(cell vmath.Cell) {
	cols, rows := t.viewport()
	col, row := t.viewCol, t.viewRow
	if cell.Col < col {
		col = cell.Col
	} else if cell.Col >= col+cols {
		col = cell.Col - cols + 1
	}
	if cell.Row < row {
		row = cell.Row
	} else if cell.Row >= row+rows*2 {
		row = cell.Row - rows*2 + 2
	}
	if col != t.viewCol || row&^1 != t.viewRow {
		t.ScrollTo(col, row)
	}
}

// CellAt maps a terminal position to the lattice cell in the upper half of
// that character.
func (t *Terminal) CellAt(x, y int) (vmath.Cell, bool) {
	cell := vmath.C(x-t.offX+t.viewCol, (y-t.offY)*2+t.viewRow)
	if x < t.offX || y < t.offY || cell.Col >= t.frame.Width() || cell.Row >= t.frame.Height() {
		return cell, false
	}
	return cell, true
}

// ScreenPos maps a lattice cell to the terminal position that shows it.
func (t *Terminal) ScreenPos(cell vmath.Cell) (x, y int) {
	return cell.Col - t.viewCol + t.offX, (cell.Row-t.viewRow)/2 + t.offY
}

// Show draws the visible part of the lattice if anything changed and
// returns whether the screen was updated.
func (t *Terminal) Show() bool {
	if !t.frame.Dirty() {
		return false
	}
	cols, rows := t.viewport()
	for y := 0; y < rows; y++ {
		top := t.viewRow + y*2
		for x := 0; x < cols; x++ {
			col := t.viewCol + x
			upper := t.frame.At(vmath.C(col, top))
			lower := upper
			if top+1 < t.frame.Height() {
				lower = t.frame.At(vmath.C(col, top+1))
			}
			style := tcell.StyleDefault.Foreground(toTcell(upper)).Background(toTcell(lower))
			t.screen.SetContent(t.offX+x, t.offY+y, upperHalf, nil, style)
		}
	}
	t.frame.MarkClean()
	return true
}

// Invalidate forces the next Show to redraw, e.g. after a resize.
func (t *Terminal) Invalidate() {
	t.frame.dirty = true
}

// viewport returns how many lattice columns and terminal rows fit on screen.
func (t *Terminal) viewport() (cols, rows int) {
	sw, sh := t.screen.Size()
	cols = min(t.frame.Width()-t.viewCol, sw-t.offX)
	rows = min((t.frame.Height()-t.viewRow+1)/2, sh-t.offY)
	return max(cols, 0), max(rows, 0)
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

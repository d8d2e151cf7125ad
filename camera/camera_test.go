package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/sandfall/vmath"
)

func TestNew(t *testing.T) {
	cam := New(800, 600, 100, 100, 0)

	// Should be centered on the lattice
	if cam.X != 50 || cam.Y != 50 {
		t.Errorf("expected camera at (50, 50), got (%f, %f)", cam.X, cam.Y)
	}
	// Fit zoom is limited by the shorter viewport side
	if cam.Zoom != 6 {
		t.Errorf("expected zoom 6, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(800, 800, 100, 100, 8)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(50, 50)
	if math.Abs(float64(sx-400)) > 0.01 || math.Abs(float64(sy-400)) > 0.01 {
		t.Errorf("expected screen center (400, 400), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 200, 100, 10)

	// Test roundtrip at various positions
	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestScreenToCell(t *testing.T) {
	cam := New(800, 800, 100, 100, 8)

	tests := []struct {
		name   string
		sx, sy float32
		want   vmath.Cell
		inside bool
	}{
		{"origin", 0, 0, vmath.C(0, 0), true},
		{"inside first cell", 7.9, 7.9, vmath.C(0, 0), true},
		{"second cell", 8, 0, vmath.C(1, 0), true},
		{"last cell", 799, 799, vmath.C(99, 99), true},
		{"past right edge", 800, 10, vmath.C(100, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, inside := cam.ScreenToCell(tt.sx, tt.sy)
			if got != tt.want || inside != tt.inside {
				t.Errorf("ScreenToCell(%v, %v) = %v, %v; want %v, %v", tt.sx, tt.sy, got, inside, tt.want, tt.inside)
			}
		})
	}
}

func TestScreenToCellLeftOfLattice(t *testing.T) {
	// Lattice narrower than the view is centered, leaving margins
	cam := New(800, 400, 100, 50, 4)
	x, _, w, _ := cam.LatticeRect()
	if x != 200 || w != 400 {
		t.Fatalf("LatticeRect x=%v w=%v, want 200, 400", x, w)
	}

	cell, inside := cam.ScreenToCell(199, 10)
	if inside {
		t.Errorf("margin should be outside, got %v", cell)
	}
	if cell.Col != -1 {
		t.Errorf("expected column -1 (floor), got %d", cell.Col)
	}
}

func TestPanClampsToLattice(t *testing.T) {
	cam := New(800, 800, 100, 100, 16) // shows 50x50 cells

	cam.Pan(-10000, -10000)
	if cam.X != 25 || cam.Y != 25 {
		t.Errorf("expected clamp to (25, 25), got (%f, %f)", cam.X, cam.Y)
	}
	cam.Pan(10000, 0)
	if cam.X != 75 {
		t.Errorf("expected clamp to x=75, got %f", cam.X)
	}
}

func TestPanCentersSmallLattice(t *testing.T) {
	cam := New(800, 800, 100, 100, 4) // lattice smaller than view

	cam.Pan(300, 300)
	if cam.X != 50 || cam.Y != 50 {
		t.Errorf("small lattice should stay centered, got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 800, 100, 100, 8)

	cam.SetZoom(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected max zoom %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected min zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestResizeKeepsZoomValid(t *testing.T) {
	cam := New(800, 800, 100, 100, 0)
	cam.SetZoom(cam.MinZoom)

	cam.Resize(1600, 1600)
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below new minimum %f", cam.Zoom, cam.MinZoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 800, 100, 100, 16) // shows cells 25..75

	if !cam.IsVisible(50, 50, 0) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(5, 5, 1) {
		t.Error("corner should be culled")
	}
	if !cam.IsVisible(20, 50, 6) {
		t.Error("radius should extend visibility")
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 800, 100, 100, 16)
	cam.Pan(100, 100)
	cam.SetZoom(32)

	cam.Reset()

	if cam.X != 50 || cam.Y != 50 {
		t.Errorf("expected reset to center, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 16 {
		t.Errorf("expected reset zoom 16, got %f", cam.Zoom)
	}
}

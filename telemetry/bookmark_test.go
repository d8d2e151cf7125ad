package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Avalanche(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Add some history with few slides
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), Slides: 10, Moves: 50, Particles: 100})
	}

	// Now add a window with a burst of slides (>3x average)
	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Slides: 40, Moves: 50, Particles: 100})
	if !hasBookmark(bookmarks, BookmarkAvalanche) {
		t.Error("expected avalanche bookmark")
	}
}

func TestBookmarkDetector_Outflow(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), Removals: 5, Moves: 10, Particles: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Removals: 30, Moves: 10, Particles: 100})
	if !hasBookmark(bookmarks, BookmarkOutflow) {
		t.Error("expected outflow bookmark")
	}
}

func TestBookmarkDetector_Drain(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Build up a pile
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), Particles: 100, Moves: 1})
	}

	// Most of it falls off the bottom
	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Particles: 50, Moves: 1})
	if !hasBookmark(bookmarks, BookmarkDrain) {
		t.Error("expected drain bookmark")
	}

	// Peak was reset, so the same count does not trigger again
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, Particles: 50, Moves: 1})
	if hasBookmark(bookmarks, BookmarkDrain) {
		t.Error("drain bookmark should not repeat")
	}
}

func TestBookmarkDetector_Settled(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bms := bd.Check(WindowStats{Particles: 30, Moves: 0}); hasBookmark(bms, BookmarkSettled) {
		t.Error("a still first window is not a transition")
	}
	bd.Check(WindowStats{Particles: 30, Moves: 12})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, Particles: 30, Static: 10, Moves: 0})
	if !hasBookmark(bookmarks, BookmarkSettled) {
		t.Error("expected settled bookmark")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 1800, Particles: 30, Static: 10, Moves: 0})
	if hasBookmark(bookmarks, BookmarkSettled) {
		t.Error("settled bookmark should trigger once per transition")
	}
}

func TestBookmarkDetector_SettledIgnoresStaticOnly(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{Particles: 10, Static: 10, Removals: 3})

	bookmarks := bd.Check(WindowStats{Particles: 10, Static: 10})
	if hasBookmark(bookmarks, BookmarkSettled) {
		t.Error("a lattice of only static particles is not a settled pile")
	}
}

func TestBookmarkDetector_SteadyFlow(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int64(i * 600),
			Particles:     200,
			Spawns:        40,
			Removals:      40,
			Moves:         300,
		})
		if hasBookmark(bookmarks, BookmarkSteadyFlow) {
			triggered++
			if i != 8 {
				t.Errorf("steady flow triggered at window %d, want 8", i)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("steady flow triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_MinimumHistory(t *testing.T) {
	bd := NewBookmarkDetector(1)
	if bd.historySize != 5 {
		t.Errorf("historySize = %d, want 5", bd.historySize)
	}
}

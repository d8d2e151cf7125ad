package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkAvalanche  BookmarkType = "avalanche"
	BookmarkOutflow    BookmarkType = "outflow"
	BookmarkSettled    BookmarkType = "settled"
	BookmarkDrain      BookmarkType = "drain"
	BookmarkSteadyFlow BookmarkType = "steady_flow"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int  // peak particle count in recent history
	wasMoving          bool // previous window had movement
	steadyWindowsCount int  // consecutive windows with balanced inflow and outflow
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady flow detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Avalanche: slides > 3x rolling average
		if b := bd.checkAvalanche(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Outflow: removals > 2x rolling average
		if b := bd.checkOutflow(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Drain: particle count dropped >30% from recent peak
		if b := bd.checkDrain(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Steady flow: inflow and outflow with low population variance over 5+ windows
		if b := bd.checkSteadyFlow(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Settled: movement stopped with particles still on the lattice
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Update history
	bd.addToHistory(stats)

	if stats.Particles > bd.recentPeak {
		bd.recentPeak = stats.Particles
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkAvalanche(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Slides
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Slides) > avg*3.0 && stats.Slides >= 20 {
		return &Bookmark{
			Type:        BookmarkAvalanche,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d slides is %.1fx average (%.1f)", stats.Slides, float64(stats.Slides)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkOutflow(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Removals
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Removals) > avg*2.0 && stats.Removals >= 10 {
		return &Bookmark{
			Type:        BookmarkOutflow,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d removals is %.1fx average (%.1f)", stats.Removals, float64(stats.Removals)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	moving := stats.Moves > 0 || stats.Removals > 0
	wasMoving := bd.wasMoving
	bd.wasMoving = moving

	// Trigger once per transition from motion to stillness
	if wasMoving && !moving && stats.Particles > stats.Static {
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("All %d particles at rest", stats.Particles),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkDrain(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Particles)/float64(bd.recentPeak)
	if dropPercent > 0.30 && stats.Particles < bd.recentPeak-10 {
		// Reset peak after drain
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Particles

		return &Bookmark{
			Type:        BookmarkDrain,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population drained %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Particles),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSteadyFlow(stats WindowStats) *Bookmark {
	// Need particles entering and leaving
	if stats.Spawns == 0 || stats.Removals == 0 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Check variance in recent windows
	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Particles)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Particles) - mean
		variance += d * d
	}
	variance /= 4

	// Low variance: coefficient of variation < 20%
	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if mean > 0 && cv2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyFlow,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady flow around %d particles over 5+ windows", stats.Particles),
		}
	}

	return nil
}

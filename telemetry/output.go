package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/sandfall/config"
)

// OutputManager owns the files of one run directory (the -output-dir flag):
//
//	telemetry.csv  one WindowStats row per stats window (population by state,
//	               step event counts, speed percentiles, per-material counts)
//	perf.csv       one PerfStats row per window (tick and phase timings)
//	bookmarks.csv  avalanche, outflow, settled, drain and steady-flow events
//	config.yaml    the resolved configuration the run used
//
// A nil *OutputManager is valid and discards everything, so callers need not
// check whether output is enabled.
type OutputManager struct {
	dir       string
	telemetry csvTable[WindowStats]
	perf      csvTable[PerfStatsCSV]
	bookmarks csvTable[Bookmark]
}

// csvTable appends rows of T to one file, writing the header with the first row.
type csvTable[T any] struct {
	name   string
	file   *os.File
	header bool
}

func (t *csvTable[T]) open(dir string) error {
	f, err := os.Create(filepath.Join(dir, t.name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", t.name, err)
	}
	t.file = f
	return nil
}

func (t *csvTable[T]) append(row T) error {
	rows := []T{row}
	var err error
	if t.header {
		err = gocsv.MarshalWithoutHeaders(rows, t.file)
	} else {
		err = gocsv.Marshal(rows, t.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", t.name, err)
	}
	t.header = true
	return nil
}

func (t *csvTable[T]) close() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}

// NewOutputManager creates dir and the three CSV files in it. An empty dir
// disables output and returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{
		dir:       dir,
		telemetry: csvTable[WindowStats]{name: "telemetry.csv"},
		perf:      csvTable[PerfStatsCSV]{name: "perf.csv"},
		bookmarks: csvTable[Bookmark]{name: "bookmarks.csv"},
	}
	for _, open := range []func(string) error{om.telemetry.open, om.perf.open, om.bookmarks.open} {
		if err := open(dir); err != nil {
			om.Close()
			return nil, err
		}
	}
	return om, nil
}

// WriteConfig snapshots cfg to config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends one stats window.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.append(stats)
}

// WritePerf appends the timing summary of the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	return om.perf.append(stats.ToCSV(windowEnd))
}

// WriteBookmark appends one detected event.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.append(b)
}

func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open file and joins any failures.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close(), om.bookmarks.close())
}

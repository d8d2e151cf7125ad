package game

import (
	"github.com/pthm-cable/sandfall/config"
	"github.com/pthm-cable/sandfall/input"
	"github.com/pthm-cable/sandfall/telemetry"
)

// Title is the window and HUD title.
const Title = "Sandfall"

// Options configures a Game beyond what the config file holds.
type Options struct {
	Config          *config.Config // nil uses config.Cfg()
	Seed            int64          // terrain seed override; 0 keeps the config value
	LogStats        bool           // log each telemetry window via slog
	StatsWindowSec  float64        // telemetry window in sim seconds; 0 uses config
	OutputDir       string         // CSV and config snapshot directory; empty disables
	Headless        bool
	StepsPerUpdate  int  // ticks per update; 0 uses config
	CheckInvariants bool // validate the occupancy grid after every tick
	Sound           bool // play audio cues even if config disables them

	// Input drives headless runs. Graphical and terminal frontends install
	// their own source.
	Input input.Source

	// StatsCallback receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

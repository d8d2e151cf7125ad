package main

import (
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandfall/config"
	"github.com/pthm-cable/sandfall/game"
	"github.com/pthm-cable/sandfall/input"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	tui := flag.Bool("tui", false, "Run in the terminal")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Terrain noise seed (0 = use config)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")
	logFile := flag.String("log-file", "", "Log destination in terminal mode (empty = discard)")
	checkInvariants := flag.Bool("check-invariants", false, "Validate the occupancy grid after every tick")
	sound := flag.Bool("sound", false, "Play audio cues")
	scriptPath := flag.String("script", "", "Input script replayed in headless mode")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging). The terminal
	// frontend owns stdout, so its logs go to a file or nowhere.
	var logOut io.Writer = os.Stdout
	if *tui {
		logOut = io.Discard
		if *logFile != "" {
			f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				slog.Error("failed to open log file", "error", err)
				os.Exit(1)
			}
			defer f.Close()
			logOut = f
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Config:          cfg,
		Seed:            *seed,
		LogStats:        *logStats,
		StatsWindowSec:  *statsWindow,
		OutputDir:       *outputDir,
		Headless:        *headless,
		StepsPerUpdate:  *stepsPerUpdate,
		CheckInvariants: *checkInvariants,
		Sound:           *sound,
	}

	if *scriptPath != "" {
		script, err := loadScript(*scriptPath)
		if err != nil {
			slog.Error("failed to load script", "error", err)
			os.Exit(1)
		}
		opts.Input = script
	}

	var err error
	switch {
	case *headless:
		err = runHeadless(opts, *maxTicks)
	case *tui:
		err = runTerminal(opts, *maxTicks)
	default:
		err = runGraphical(opts, *maxTicks)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func loadScript(path string) (*input.Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return input.ParseScript(f)
}

// runHeadless steps without any frontend until max ticks, quit or error.
func runHeadless(opts game.Options, maxTicks uint64) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"lattice_w", opts.Config.Lattice.Width,
		"lattice_h", opts.Config.Lattice.Height,
		"max_ticks", maxTicks,
		"check_invariants", opts.CheckInvariants,
	)

	if maxTicks == 0 && opts.Input == nil {
		slog.Warn("no -max-ticks and no -script: running until interrupted")
	}
	for !g.Done() {
		g.UpdateHeadless()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "particles", g.Simulator().Grid().Count())
			break
		}
	}
	return g.Err()
}

// runTerminal renders the lattice with tcell.
func runTerminal(opts game.Options, maxTicks uint64) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return g.RunTerminal(screen, maxTicks)
}

// runGraphical opens a raylib window.
func runGraphical(opts game.Options, maxTicks uint64) error {
	cfg := opts.Config
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), game.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()
	g.InitGraphics()

	for !rl.WindowShouldClose() && !g.Done() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}
	return g.Err()
}

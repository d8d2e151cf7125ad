// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sandfall/materials"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig     `yaml:"screen"`
	Lattice   LatticeConfig    `yaml:"lattice"`
	Physics   PhysicsConfig    `yaml:"physics"`
	Display   DisplayConfig    `yaml:"display"`
	Materials []MaterialConfig `yaml:"materials"`
	Seeds     []SeedConfig     `yaml:"seeds"`
	Terrain   TerrainConfig    `yaml:"terrain"`
	Spawn     SpawnConfig      `yaml:"spawn"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
	Audio     AudioConfig      `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the graphical frontend.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// LatticeConfig holds the grid dimensions in cells.
type LatticeConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"` // pixels per cell at zoom 1; 0 fits the screen
}

// PhysicsConfig holds timestep settings.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`               // fixed step in seconds; 0 uses measured frame time
	MaxDT          float64 `yaml:"max_dt"`           // clamp for measured frame time
	StepsPerUpdate int     `yaml:"steps_per_update"` // ticks per frame
}

// DisplayConfig holds colors used by every frontend.
type DisplayConfig struct {
	Background []int `yaml:"background"` // RGB
	Cursor     []int `yaml:"cursor"`     // RGB
	ShowHUD    bool  `yaml:"show_hud"`
}

// MaterialConfig defines a material. A definition named after a built-in
// (sand, stone) replaces it.
type MaterialConfig struct {
	Name      string  `yaml:"name"`
	Color     []int   `yaml:"color"` // RGB
	Adhesion  float64 `yaml:"adhesion"`
	Viscosity float64 `yaml:"viscosity"`
	Gravity   float64 `yaml:"gravity"`
}

// CellConfig is a lattice coordinate.
type CellConfig struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

// Seed shapes.
const (
	ShapeCell = "cell"
	ShapeLine = "line"
	ShapeRect = "rect"
)

// SeedConfig places particles at start-up. Cell uses From only; Line and
// Rect span From..To inclusive.
type SeedConfig struct {
	Material string     `yaml:"material"`
	Shape    string     `yaml:"shape"`
	From     CellConfig `yaml:"from"`
	To       CellConfig `yaml:"to"`
}

// TerrainConfig holds the noise hill generator settings.
type TerrainConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Material  string  `yaml:"material"`
	Seed      int64   `yaml:"seed"`
	Scale     float64 `yaml:"scale"`     // noise frequency per column
	Octaves   int     `yaml:"octaves"`   // fractal layers
	Base      int     `yaml:"base"`      // minimum column height in cells
	Amplitude int     `yaml:"amplitude"` // height added at noise peak
}

// SpawnConfig holds spawn tool settings.
type SpawnConfig struct {
	Material    string `yaml:"material"`
	BrushRadius int    `yaml:"brush_radius"`
	MaxRadius   int    `yaml:"max_radius"`
}

// TelemetryConfig holds statistics collection settings.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of simulated time
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	SpawnTone  float64 `yaml:"spawn_tone"`  // Hz
	RemoveTone float64 `yaml:"remove_tone"` // Hz
	CueMillis  int     `yaml:"cue_ms"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Materials  *materials.Table
	Background color.RGBA
	Cursor     color.RGBA
	NominalDT  float64 // Physics.DT, or one frame at TargetFPS when measured
	ScreenW32  float32
	ScreenH32  float32
	CellSize32 float32 // pixels per cell at zoom 1
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a configuration from YAML data merged over the embedded
// defaults. Only fields present in data are overwritten; lists (materials,
// seeds) are replaced wholesale.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the loaded values and calculates the values
// derived from them.
func (c *Config) computeDerived() error {
	if c.Lattice.Width < 1 || c.Lattice.Height < 1 {
		return fmt.Errorf("%w: lattice %dx%d", ErrInvalidConfig, c.Lattice.Width, c.Lattice.Height)
	}
	if c.Physics.DT < 0 {
		return fmt.Errorf("%w: physics.dt %v is negative", ErrInvalidConfig, c.Physics.DT)
	}
	if c.Physics.StepsPerUpdate < 1 {
		c.Physics.StepsPerUpdate = 1
	}
	if c.Screen.TargetFPS < 1 {
		c.Screen.TargetFPS = 60
	}
	if c.Physics.MaxDT <= 0 {
		c.Physics.MaxDT = 0.1
	}

	var err error
	if c.Derived.Background, err = parseRGB("display.background", c.Display.Background); err != nil {
		return err
	}
	if c.Derived.Cursor, err = parseRGB("display.cursor", c.Display.Cursor); err != nil {
		return err
	}

	defs := make([]materials.Material, 0, len(c.Materials))
	for _, mc := range c.Materials {
		col, err := parseRGB("materials."+mc.Name+".color", mc.Color)
		if err != nil {
			return err
		}
		defs = append(defs, materials.Material{
			Name:      mc.Name,
			Color:     col,
			Adhesion:  mc.Adhesion,
			Viscosity: mc.Viscosity,
			Gravity:   mc.Gravity,
		})
	}
	if c.Derived.Materials, err = materials.NewTable(defs...); err != nil {
		return fmt.Errorf("building material table: %w", err)
	}

	for i, s := range c.Seeds {
		if _, err := c.Derived.Materials.Resolve(s.Material); err != nil {
			return fmt.Errorf("seeds[%d]: %w", i, err)
		}
		switch strings.ToLower(s.Shape) {
		case "", ShapeCell, ShapeLine, ShapeRect:
		default:
			return fmt.Errorf("%w: seeds[%d] shape %q", ErrInvalidConfig, i, s.Shape)
		}
	}
	if c.Terrain.Enabled {
		if _, err := c.Derived.Materials.Resolve(c.Terrain.Material); err != nil {
			return fmt.Errorf("terrain: %w", err)
		}
	}
	if _, err := c.Derived.Materials.Resolve(c.Spawn.Material); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}

	c.Derived.NominalDT = c.Physics.DT
	if c.Derived.NominalDT == 0 {
		c.Derived.NominalDT = 1 / float64(c.Screen.TargetFPS)
	}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Cell size defaults to the largest that fits the whole lattice on screen
	cell := c.Lattice.CellSize
	if cell <= 0 {
		cell = min(c.Screen.Width/c.Lattice.Width, c.Screen.Height/c.Lattice.Height)
		if cell < 1 {
			cell = 1
		}
	}
	c.Derived.CellSize32 = float32(cell)
	return nil
}

func parseRGB(field string, v []int) (color.RGBA, error) {
	if len(v) != 3 {
		return color.RGBA{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidConfig, field, len(v))
	}
	for _, x := range v {
		if x < 0 || x > 255 {
			return color.RGBA{}, fmt.Errorf("%w: %s component %d outside [0,255]", ErrInvalidConfig, field, x)
		}
	}
	return color.RGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 255}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

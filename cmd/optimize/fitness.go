package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sandfall/config"
	"github.com/pthm-cable/sandfall/game"
	"github.com/pthm-cable/sandfall/input"
	"github.com/pthm-cable/sandfall/telemetry"
	"github.com/pthm-cable/sandfall/vmath"
)

// Pour settings shared by every evaluation.
const (
	pourRadius  = 2
	maxFill     = 0.5 // terrain share of the lattice above which runs are penalized
	fillPenalty = 4.0
)

// FitnessEvaluator runs headless pours over generated terrain and scores
// how close the retained share of sand is to a target.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   uint64
	pourTicks  int
	seeds      []int64
	baseConfig *config.Config
	target     float64 // desired retained share of poured sand

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestRun     *RunSummary
	last        RunSummary // averaged over seeds for the most recent Evaluate
}

// RunSummary describes one evaluation.
type RunSummary struct {
	Fitness   float64                 `json:"fitness"`
	Retention float64                 `json:"retention"` // poured sand still on the lattice
	Fill      float64                 `json:"fill"`      // terrain share of the lattice
	Roughness float64                 `json:"roughness"` // std dev of terrain column heights
	Poured    int                     `json:"poured"`
	Windows   []telemetry.WindowStats `json:"-"`
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, pourTicks int, seeds []int64, target float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		pourTicks:   pourTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		bestFitness: math.Inf(1),
	}
}

// BestRun returns the best single-seed run seen so far.
func (fe *FitnessEvaluator) BestRun() *RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestRun
}

// Last returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) Last() RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]RunSummary, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			r.Fitness = fe.computeFitness(r)
			results[idx] = r
		}(i, seed)
	}
	wg.Wait()

	var avg RunSummary
	best := -1
	for i, r := range results {
		avg.Fitness += r.Fitness
		avg.Retention += r.Retention
		avg.Fill += r.Fill
		avg.Roughness += r.Roughness
		avg.Poured += r.Poured
		if best < 0 || r.Fitness < results[best].Fitness {
			best = i
		}
	}
	n := float64(len(fe.seeds))
	avg.Fitness /= n
	avg.Retention /= n
	avg.Fill /= n
	avg.Roughness /= n
	avg.Poured /= max(len(fe.seeds), 1)

	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.last = avg
	if best >= 0 && results[best].Fitness < fe.bestFitness {
		fe.bestFitness = results[best].Fitness
		r := results[best]
		fe.bestRun = &r
	}
	return avg.Fitness
}

// runSimulation pours sand onto the terrain for one seed and measures what
// stays on the lattice.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) RunSummary {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Terrain.Seed = seed
	cfg.Seeds = nil
	cfg.Spawn.Material = "sand"
	cfg.Spawn.BrushRadius = pourRadius
	cfg.Spawn.MaxRadius = max(cfg.Spawn.MaxRadius, pourRadius)

	w, h := cfg.Lattice.Width, cfg.Lattice.Height
	pour := input.Signals{Active: input.SignalSpawn, Pointer: vmath.C(w/2, 0), HasPointer: true}
	frames := make([]input.Signals, fe.pourTicks)
	for i := range frames {
		frames[i] = pour
	}

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Config:   cfg,
		Headless: true,
		Input:    input.NewScript(frames...),
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		return RunSummary{Fitness: math.Inf(1)}
	}
	defer g.Unload()

	heights := game.TerrainHeights(cfg.Terrain, w, h)
	terrain := 0
	hs := make([]float64, len(heights))
	for i, v := range heights {
		terrain += v
		hs[i] = float64(v)
	}

	for g.Tick() < fe.maxTicks && !g.Done() {
		g.UpdateHeadless()
	}

	remaining := g.Simulator().Grid().Count() - terrain
	poured := remaining + g.Removed()
	r := RunSummary{
		Fill:      float64(terrain) / float64(w*h),
		Roughness: stat.StdDev(hs, nil),
		Poured:    poured,
		Windows:   windows,
	}
	if poured > 0 {
		r.Retention = float64(remaining) / float64(poured)
	}
	return r
}

// computeFitness is the squared distance from the target retention plus a
// penalty for terrain that buries the lattice.
func (fe *FitnessEvaluator) computeFitness(r RunSummary) float64 {
	if math.IsInf(r.Fitness, 1) {
		return r.Fitness
	}
	d := r.Retention - fe.target
	f := d * d
	if over := r.Fill - maxFill; over > 0 {
		f += fillPenalty * over * over
	}
	return f
}

// copyConfig returns a shallow copy of the base config. Seeds is replaced,
// never appended to, and the material table is read-only.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

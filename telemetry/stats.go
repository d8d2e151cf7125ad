package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Particles int `csv:"particles"`
	Static    int `csv:"static"`
	Resting   int `csv:"resting"`
	Falling   int `csv:"falling"`
	Sliding   int `csv:"sliding"`

	// Events during window
	Spawns     int `csv:"spawns"`
	Erases     int `csv:"erases"`
	Removals   int `csv:"removals"`
	Moves      int `csv:"moves"`
	Slides     int `csv:"slides"`
	Rests      int `csv:"rests"`
	Collisions int `csv:"collisions"`

	// Speed distribution of moving particles (cells per tick, sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Per-material population, "name=count" pairs in kind order
	Materials string `csv:"materials"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates population mean, standard deviation and
// percentiles of speed values.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("static", s.Static),
		slog.Int("resting", s.Resting),
		slog.Int("falling", s.Falling),
		slog.Int("sliding", s.Sliding),
		slog.Int("spawns", s.Spawns),
		slog.Int("erases", s.Erases),
		slog.Int("removals", s.Removals),
		slog.Int("moves", s.Moves),
		slog.Int("slides", s.Slides),
		slog.Int("rests", s.Rests),
		slog.Int("collisions", s.Collisions),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.String("materials", s.Materials),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"resting", s.Resting,
		"falling", s.Falling,
		"sliding", s.Sliding,
		"spawns", s.Spawns,
		"removals", s.Removals,
		"slides", s.Slides,
		"collisions", s.Collisions,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"materials", s.Materials,
	)
}

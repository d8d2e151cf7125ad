// Package main provides CMA-ES optimization for terrain generator parameters.
package main

import (
	"math"

	"github.com/pthm-cable/sandfall/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the terrain parameters, with defaults taken from
// cfg.
func NewParamVector(cfg *config.Config) *ParamVector {
	t := cfg.Terrain
	h := float64(cfg.Lattice.Height)
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "scale", Path: "terrain.scale", Min: 0.005, Max: 0.2, Default: t.Scale},
			{Name: "octaves", Path: "terrain.octaves", Min: 1, Max: 6, Default: float64(t.Octaves)},
			{Name: "base", Path: "terrain.base", Min: 0, Max: h / 3, Default: float64(t.Base)},
			{Name: "amplitude", Path: "terrain.amplitude", Min: 0, Max: h / 2, Default: float64(t.Amplitude)},
		},
	}
	// Config values outside the search box start on its edge
	for i, v := range pv.Clamp(pv.DefaultVector()) {
		pv.Specs[i].Default = v
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg.Terrain and enables the
// terrain. Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Terrain.Enabled = true
	cfg.Terrain.Scale = clamped[0]
	cfg.Terrain.Octaves = int(math.Round(clamped[1]))
	cfg.Terrain.Base = int(math.Round(clamped[2]))
	cfg.Terrain.Amplitude = int(math.Round(clamped[3]))
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Terrain.Scale,
		float64(cfg.Terrain.Octaves),
		float64(cfg.Terrain.Base),
		float64(cfg.Terrain.Amplitude),
	}
}

// Package materials defines the immutable material descriptors shared by all
// particles of a kind, and the read-only table they are looked up in.
package materials

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

var (
	// ErrInvalidMaterial is returned for a definition that fails validation.
	ErrInvalidMaterial = errors.New("invalid material")
	// ErrUnknownMaterial is returned when a lookup names no material.
	ErrUnknownMaterial = errors.New("unknown material")
)

// Kind identifies a material within a Table.
type Kind uint8

// Material describes how particles of one kind look and fall.
// Adhesion and Viscosity are carried for future material behaviors and are
// not read by the step algorithm.
type Material struct {
	Name      string     `inspect:"label"`
	Color     color.RGBA `inspect:"swatch"`
	Adhesion  float64    `inspect:"bar"`            // [0, 1]
	Viscosity float64    `inspect:"label"`          // >= 0
	Gravity   float64    `inspect:"label,fmt:%.2f"` // downward acceleration in cells/tick per second
}

// IsStatic reports whether particles of this material never move.
func (m *Material) IsStatic() bool {
	return m.Gravity == 0
}

// Validate checks the declared ranges of the material attributes.
func (m Material) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidMaterial)
	}
	if m.Adhesion < 0 || m.Adhesion > 1 {
		return fmt.Errorf("%w: %s adhesion %v outside [0,1]", ErrInvalidMaterial, m.Name, m.Adhesion)
	}
	if m.Viscosity < 0 {
		return fmt.Errorf("%w: %s viscosity %v is negative", ErrInvalidMaterial, m.Name, m.Viscosity)
	}
	return nil
}

// Built-in materials. These are process-lifetime constants; never modify them.
var (
	Sand = &Material{
		Name:     "sand",
		Color:    color.RGBA{R: 235, G: 177, B: 52, A: 255},
		Adhesion: 0.2,
		Gravity:  2,
	}
	Stone = &Material{
		Name:  "stone",
		Color: color.RGBA{R: 82, G: 84, B: 87, A: 255},
	}
)

// Builtins returns the built-in materials in kind order.
func Builtins() []*Material {
	return []*Material{Sand, Stone}
}

// Package config holds the operator's tuning knobs and their YAML loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AxisBounds limits one look axis in degrees. A span of 720 or more marks
// the axis as free-spinning: it rotates without bound and is never wrapped.
type AxisBounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Unbounded reports whether the axis rotates without limit.
func (b AxisBounds) Unbounded() bool {
	return b.Max-b.Min >= 720
}

// OperatorSpec tunes smoothing, limits, collision, and input mapping for one
// operator. Zero values are not meaningful; start from Default.
type OperatorSpec struct {
	// Smoothing time constants in seconds; 0 or below snaps instantly.
	LookSmoothing   float64 `yaml:"look_smoothing"`
	ZoomSmoothing   float64 `yaml:"zoom_smoothing"`
	GroundSmoothing float64 `yaml:"ground_smoothing"`

	// GroundAlignFactor scales the tilt derived from the ground normal.
	GroundAlignFactor float64 `yaml:"ground_align_factor"`

	// CollisionMargin keeps the camera that far off whatever the zoom ray
	// hits.
	CollisionMargin float64 `yaml:"collision_margin"`

	// CurveSamples is the arc-length table resolution for path segments.
	CurveSamples int `yaml:"curve_samples"`

	ZoomMin float64 `yaml:"zoom_min"`
	ZoomMax float64 `yaml:"zoom_max"`

	// Input sensitivity: degrees per normalized look unit and world units
	// per normalized zoom unit.
	LookSensitivity float64 `yaml:"look_sensitivity"`
	ZoomStep        float64 `yaml:"zoom_step"`

	Pitch AxisBounds `yaml:"pitch"`
	Yaw   AxisBounds `yaml:"yaw"`
	Roll  AxisBounds `yaml:"roll"`
}

// Default returns the tuning used when no spec file overrides it.
func Default() OperatorSpec {
	return OperatorSpec{
		LookSmoothing:     0.25,
		ZoomSmoothing:     0.3,
		GroundSmoothing:   0.5,
		GroundAlignFactor: 0.5,
		CollisionMargin:   0.25,
		CurveSamples:      64,
		ZoomMin:           0,
		ZoomMax:           50,
		LookSensitivity:   90,
		ZoomStep:          2,
		Pitch:             AxisBounds{Min: -85, Max: 85},
		Yaw:               AxisBounds{Min: -36000, Max: 36000},
		Roll:              AxisBounds{Min: -30, Max: 30},
	}
}

// Axis returns the bounds for look axis i (0 pitch, 1 yaw, 2 roll).
func (s OperatorSpec) Axis(i int) AxisBounds {
	switch i {
	case 0:
		return s.Pitch
	case 1:
		return s.Yaw
	default:
		return s.Roll
	}
}

// LoadSpec reads a YAML file into any spec type.
func LoadSpec[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("config: load %s: %w", path, err)
	}
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return spec, nil
}

// Load reads an operator spec from a YAML file, starting from Default for
// any field the file omits.
func Load(path string) (OperatorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: load %s: %w", path, err)
	}
	spec := Default()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Default(), fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return spec, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	spec := Default()
	assert.Greater(t, spec.LookSmoothing, 0.0)
	assert.Greater(t, spec.ZoomMax, spec.ZoomMin)
	assert.True(t, spec.Yaw.Unbounded())
	assert.False(t, spec.Pitch.Unbounded())
	assert.GreaterOrEqual(t, spec.CurveSamples, 2)
}

func TestAxis(t *testing.T) {
	spec := Default()
	assert.Equal(t, spec.Pitch, spec.Axis(0))
	assert.Equal(t, spec.Yaw, spec.Axis(1))
	assert.Equal(t, spec.Roll, spec.Axis(2))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operator.yaml")
	body := "look_smoothing: 0.5\nzoom_max: 12\npitch:\n  min: -60\n  max: 60\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	spec, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, spec.LookSmoothing)
	assert.Equal(t, 12.0, spec.ZoomMax)
	assert.Equal(t, AxisBounds{Min: -60, Max: 60}, spec.Pitch)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().ZoomSmoothing, spec.ZoomSmoothing)
	assert.Equal(t, Default().Yaw, spec.Yaw)
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	spec, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Equal(t, Default(), spec)
}

func TestLoadSpecGeneric(t *testing.T) {
	type demo struct {
		Name  string  `yaml:"name"`
		Speed float64 `yaml:"speed"`
	}
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: cart\nspeed: 3.5\n"), 0o644))

	d, err := LoadSpec[demo](path)
	require.NoError(t, err)
	assert.Equal(t, demo{Name: "cart", Speed: 3.5}, d)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCalibration_NothingConfigured(t *testing.T) {
	cfg, err := LoadCalibration()
	require.NoError(t, err)

	assert.Nil(t, cfg.Red.Entry())
	assert.Nil(t, cfg.Blue.Entry())
	assert.Nil(t, cfg.RaptYellow.Entry())
}

func TestLoadCalibration_OffsetsFromEnvironment(t *testing.T) {
	t.Setenv("TILT_CAL_BLUE", `{"temp":1.5,"sg":0.002}`)
	t.Setenv("TILT_CAL_RAPT_YELLOW", `{"temp":-0.3,"sg":-0.001}`)

	cfg, err := LoadCalibration()
	require.NoError(t, err)

	blue := cfg.Blue.Entry()
	require.NotNil(t, blue)
	assert.InDelta(t, 1.5, blue.TemperatureOffset, 0.0001)
	assert.InDelta(t, 0.002, blue.GravityOffset, 0.0001)

	rapt := cfg.RaptYellow.Entry()
	require.NotNil(t, rapt)
	assert.InDelta(t, -0.3, rapt.TemperatureOffset, 0.0001)

	assert.Nil(t, cfg.Red.Entry())
}

func TestLoadCalibration_ZeroOffsetsAreConfigured(t *testing.T) {
	t.Setenv("TILT_CAL_PINK", `{"temp":0.0,"sg":0.0}`)

	cfg, err := LoadCalibration()
	require.NoError(t, err)

	// Configured zero offsets are not the same as absent calibration.
	pink := cfg.Pink.Entry()
	require.NotNil(t, pink)
	assert.Zero(t, pink.TemperatureOffset)
	assert.Zero(t, pink.GravityOffset)
}

func TestLoadCalibration_MalformedValue(t *testing.T) {
	t.Setenv("TILT_CAL_GREEN", "not json")

	_, err := LoadCalibration()
	assert.Error(t, err)
}

func TestOffset_UnmarshalTextBlank(t *testing.T) {
	var o Offset
	require.NoError(t, o.UnmarshalText([]byte("  ")))
	assert.Nil(t, o.Entry())
}

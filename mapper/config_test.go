package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestSweetSpotInversionRejected(t *testing.T) {
	cfg := Default()
	cfg.SweetSpotLow = 10
	cfg.SweetSpotHigh = 2
	err := cfg.Validate()
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sweet-spot", cfgErr.Field)
}

func TestBadGridRejected(t *testing.T) {
	cfg := Default()
	cfg.QuantizationResolution = 0.3
	assert.Error(t, cfg.Validate())
}

func TestNegativePenaltyRejected(t *testing.T) {
	cfg := Default()
	cfg.MovementPenalty = -1
	assert.Error(t, cfg.Validate())
}

func TestParsePitchMode(t *testing.T) {
	m, err := ParsePitchMode("drop")
	assert.NoError(t, err)
	assert.Equal(t, PitchDrop, m)

	m, err = ParsePitchMode("normalize")
	assert.NoError(t, err)
	assert.Equal(t, PitchNormalize, m)

	_, err = ParsePitchMode("fold")
	assert.Error(t, err)
}

func TestQuantizeBeat(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.125, cfg.QuantizeBeat(0.13))
	assert.Equal(t, 0.0, cfg.QuantizeBeat(0.05))
	assert.Equal(t, 2.0, cfg.QuantizeBeat(1.99))
}

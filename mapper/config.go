package mapper

import "fmt"

// PitchMode selects what the normaliser does with out-of-range pitches
// when ConstrainPitch is set.
type PitchMode int

const (
	PitchDrop PitchMode = iota
	PitchNormalize
)

func ParsePitchMode(s string) (PitchMode, error) {
	switch s {
	case "drop", "":
		return PitchDrop, nil
	case "normalize":
		return PitchNormalize, nil
	}
	return 0, &ConfigError{Field: "pitch-mode", Msg: fmt.Sprintf("must be drop or normalize, got %q", s)}
}

// GridResolutions are the admissible quantisation grids, in beats.
var GridResolutions = []float64{0.0125, 0.0625, 0.125, 0.25, 0.5, 1.0}

// Config holds every tunable of the scoring algorithm and the
// normaliser. It is built once at startup and never mutated during a
// run; the oracle and scorer are pure functions of (config, frames).
type Config struct {
	// Shape (frame-local) weights.
	FretSpanPenalty             float64
	HighFretPenalty             float64
	LowStringHighFretMultiplier float64
	UnplayableFretSpan          int
	SweetSpotBonus              float64
	SweetSpotLow                int
	SweetSpotHigh               int
	IgnoreOpen                  bool
	BarreBonus                  float64
	BarrePenalty                float64
	PreferOpen                  bool
	FrettedOpenPenalty          float64

	// Transition weights.
	MovementPenalty              float64
	StringSwitchPenalty          float64
	LetRingBonus                 float64
	CountFretSpanAcrossNeighbors bool

	// Articulation thresholds.
	LegatoTimeThreshold float64
	TappingRunThreshold int
	NoArticulations     bool

	// Normalisation.
	Transpose              int
	ConstrainPitch         bool
	PitchMode              PitchMode
	MonoLowestOnly         bool
	Dedupe                 bool
	PreQuantize            bool
	QuantizationResolution float64
	VelocityCutoff         int
}

// Default mirrors the weights the transcriber ships with.
func Default() *Config {
	return &Config{
		FretSpanPenalty:             100,
		HighFretPenalty:             5,
		LowStringHighFretMultiplier: 10,
		UnplayableFretSpan:          4,
		SweetSpotBonus:              0.5,
		SweetSpotLow:                0,
		SweetSpotHigh:               12,
		IgnoreOpen:                  true,
		FrettedOpenPenalty:          20,
		MovementPenalty:             3,
		StringSwitchPenalty:         5,
		LegatoTimeThreshold:         0.5,
		TappingRunThreshold:         2,
		QuantizationResolution:      0.125,
	}
}

// ConfigError reports a contradiction inside the configuration. It is
// fatal: no frames are processed once one is found.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// Validate rejects contradictory weights and geometry before any frame
// is processed.
func (c *Config) Validate() error {
	if c.SweetSpotLow > c.SweetSpotHigh {
		return &ConfigError{Field: "sweet-spot", Msg: fmt.Sprintf("low %d exceeds high %d", c.SweetSpotLow, c.SweetSpotHigh)}
	}
	if c.UnplayableFretSpan < 1 {
		return &ConfigError{Field: "unplayable-fret-span", Msg: "must be at least 1"}
	}
	if c.LegatoTimeThreshold < 0 {
		return &ConfigError{Field: "legato-time-threshold", Msg: "must be non-negative"}
	}
	if c.TappingRunThreshold < 2 {
		return &ConfigError{Field: "tapping-run-threshold", Msg: "must be at least 2"}
	}
	if c.VelocityCutoff < 0 || c.VelocityCutoff > 127 {
		return &ConfigError{Field: "velocity-cutoff", Msg: "must be within 0..127"}
	}
	ok := false
	for _, g := range GridResolutions {
		if c.QuantizationResolution == g {
			ok = true
			break
		}
	}
	if !ok {
		return &ConfigError{Field: "quantization-resolution", Msg: fmt.Sprintf("%v is not an admissible grid", c.QuantizationResolution)}
	}
	for _, w := range []struct {
		name string
		v    float64
	}{
		{"fret-span-penalty", c.FretSpanPenalty},
		{"high-fret-penalty", c.HighFretPenalty},
		{"movement-penalty", c.MovementPenalty},
		{"string-switch-penalty", c.StringSwitchPenalty},
		{"fretted-open-penalty", c.FrettedOpenPenalty},
	} {
		if w.v < 0 {
			return &ConfigError{Field: w.name, Msg: "penalty must be non-negative"}
		}
	}
	return nil
}

// QuantizeBeat snaps a beat position to the configured grid.
func (c *Config) QuantizeBeat(beat float64) float64 {
	g := c.QuantizationResolution
	if g <= 0 {
		return beat
	}
	n := int(beat/g + 0.5)
	return float64(n) * g
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gofrets/gofrets/convert"
	"github.com/gofrets/gofrets/mapper"
	"github.com/gofrets/gofrets/tuning"
)

type convertFlags struct {
	tuningName string
	capo       int
	numStrings int
	maxFret    int
	bass       bool

	nudge        int
	track        int
	transpose    int
	yes          bool
	staccato     bool
	maxLineWidth int
	singleString int

	constrainPitch bool
	pitchMode      string
	noArtic        bool
	monoLowest     bool
	dedupe         bool
	preQuantize    bool
	gridRes        float64
	velocityCutoff int

	fretSpanPenalty     float64
	movementPenalty     float64
	stringSwitchPenalty float64
	highFretPenalty     float64
	lowStringHighFret   float64
	unplayableFretSpan  int
	sweetSpotBonus      float64
	sweetSpotLow        int
	sweetSpotHigh       int
	ignoreOpen          bool
	barreBonus          float64
	barrePenalty        float64
	letRingBonus        float64
	preferOpen          bool
	frettedOpenPenalty  float64
	neighborSpan        bool
	legatoThreshold     float64
	tappingThreshold    int
}

var cf convertFlags

func init() {
	f := convertCmd.Flags()

	f.StringVar(&cf.tuningName, "tuning", "STANDARD", "tuning preset name or space-separated note list")
	f.IntVar(&cf.capo, "capo", 0, "capo position; fret numbers are relative to it")
	f.IntVar(&cf.numStrings, "num-strings", 0, "force the staff string count (must match the tuning)")
	f.IntVar(&cf.maxFret, "max-fret", 24, "highest fret on the virtual neck")
	f.BoolVar(&cf.bass, "bass", false, "shorthand for --tuning BASS_STANDARD")

	f.IntVar(&cf.nudge, "nudge", 0, "shift all events right by N sixteenths")
	f.IntVar(&cf.track, "track", 0, "1-based midi track to select; 0 processes all")
	f.IntVar(&cf.transpose, "transpose", 0, "transpose by N semitones")
	f.BoolVarP(&cf.yes, "yes", "y", false, "overwrite the output file if it exists")
	f.BoolVar(&cf.staccato, "staccato", false, "eighth-note durations instead of sustain when reading tab")
	f.IntVar(&cf.maxLineWidth, "max-line-width", 40, "columns per measure of ASCII tab")
	f.IntVar(&cf.singleString, "single-string", 0, "force all notes onto one string (1 = highest)")

	f.BoolVar(&cf.constrainPitch, "constrain-pitch", false, "constrain notes to the tuning's playable range")
	f.StringVar(&cf.pitchMode, "pitch-mode", "drop", "out-of-range handling with --constrain-pitch: drop or normalize")
	f.BoolVar(&cf.noArtic, "no-articulations", false, "no legato, taps, hammer-ons or pull-offs")
	f.BoolVar(&cf.monoLowest, "mono-lowest-only", false, "keep only the lowest note of each chord")
	f.BoolVar(&cf.dedupe, "dedupe", false, "collapse duplicate pitches within a chord")
	f.BoolVar(&cf.preQuantize, "pre-quantize", false, "snap note starts to the grid before mapping")
	f.Float64Var(&cf.gridRes, "quantization-resolution", 0.125, "grid used to group simultaneous notes, in beats")
	f.IntVar(&cf.velocityCutoff, "velocity-cutoff", 0, "ignore notes quieter than this velocity")

	f.Float64Var(&cf.fretSpanPenalty, "fret-span-penalty", 100, "penalty for wide fret stretches")
	f.Float64Var(&cf.movementPenalty, "movement-penalty", 3, "penalty for hand movement between frames")
	f.Float64Var(&cf.stringSwitchPenalty, "string-switch-penalty", 5, "penalty per newly used string")
	f.Float64Var(&cf.highFretPenalty, "high-fret-penalty", 5, "penalty for playing high on the neck")
	f.Float64Var(&cf.lowStringHighFret, "low-string-high-fret-multiplier", 10, "extra per-fret penalty on the low strings")
	f.IntVar(&cf.unplayableFretSpan, "unplayable-fret-span", 4, "fret span considered unplayable")
	f.Float64Var(&cf.sweetSpotBonus, "sweet-spot-bonus", 0.5, "bonus for staying inside the sweet spot")
	f.IntVar(&cf.sweetSpotLow, "sweet-spot-low", 0, "lowest fret of the sweet spot")
	f.IntVar(&cf.sweetSpotHigh, "sweet-spot-high", 12, "highest fret of the sweet spot")
	f.BoolVar(&cf.ignoreOpen, "ignore-open", true, "exclude open strings from span and centroid")
	f.Float64Var(&cf.barreBonus, "barre-bonus", 0, "bonus for single-finger barre shapes")
	f.Float64Var(&cf.barrePenalty, "barre-penalty", 0, "penalty for single-finger barre shapes")
	f.Float64Var(&cf.letRingBonus, "let-ring-bonus", 0, "bonus for letting previous strings ring")
	f.BoolVar(&cf.preferOpen, "prefer-open", false, "prefer open strings over fretted equivalents")
	f.Float64Var(&cf.frettedOpenPenalty, "fretted-open-penalty", 20, "penalty for fretting a note that has an open alternative")
	f.BoolVar(&cf.neighborSpan, "count-fret-span-across-neighbors", false, "gate the fret span across consecutive frames")
	f.Float64Var(&cf.legatoThreshold, "legato-time-threshold", 0.5, "max gap in beats for a legato phrase")
	f.IntVar(&cf.tappingThreshold, "tapping-run-threshold", 2, "min notes in a run considered for tapping")

	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert between music formats, mapping to the fretboard when needed",
	Long: `Convert between .mid, .abc, .vex and .tab files in any direction.
The formats are inferred from the file extensions. Conversions whose
output carries fret positions run the fretboard mapper.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cf.buildOptions()
		if err != nil {
			return err
		}
		summary, err := convert.Run(args[0], args[1], opts, logger)
		if err != nil {
			return err
		}
		fmt.Println(summary.Line())
		return nil
	},
}

func (cf *convertFlags) buildOptions() (*convert.Options, error) {
	tuningName := cf.tuningName
	if cf.bass && tuningName == "STANDARD" {
		tuningName = "BASS_STANDARD"
	}
	tun, err := tuning.Parse(tuningName)
	if err != nil {
		return nil, err
	}
	tun.Capo = cf.capo
	if cf.numStrings != 0 && cf.numStrings != tun.NumStrings() {
		return nil, &mapper.ConfigError{
			Field: "num-strings",
			Msg:   fmt.Sprintf("%d does not match the %d strings of %s", cf.numStrings, tun.NumStrings(), tun.Name),
		}
	}
	if cf.singleString < 0 || cf.singleString > tun.NumStrings() {
		return nil, &mapper.ConfigError{
			Field: "single-string",
			Msg:   fmt.Sprintf("%d outside 1..%d", cf.singleString, tun.NumStrings()),
		}
	}

	pitchMode, err := mapper.ParsePitchMode(cf.pitchMode)
	if err != nil {
		return nil, err
	}

	mc := mapper.Default()
	mc.FretSpanPenalty = cf.fretSpanPenalty
	mc.MovementPenalty = cf.movementPenalty
	mc.StringSwitchPenalty = cf.stringSwitchPenalty
	mc.HighFretPenalty = cf.highFretPenalty
	mc.LowStringHighFretMultiplier = cf.lowStringHighFret
	mc.UnplayableFretSpan = cf.unplayableFretSpan
	mc.SweetSpotBonus = cf.sweetSpotBonus
	mc.SweetSpotLow = cf.sweetSpotLow
	mc.SweetSpotHigh = cf.sweetSpotHigh
	mc.IgnoreOpen = cf.ignoreOpen
	mc.BarreBonus = cf.barreBonus
	mc.BarrePenalty = cf.barrePenalty
	mc.LetRingBonus = cf.letRingBonus
	mc.PreferOpen = cf.preferOpen
	mc.FrettedOpenPenalty = cf.frettedOpenPenalty
	mc.CountFretSpanAcrossNeighbors = cf.neighborSpan
	mc.LegatoTimeThreshold = cf.legatoThreshold
	mc.TappingRunThreshold = cf.tappingThreshold
	mc.NoArticulations = cf.noArtic
	mc.Transpose = cf.transpose
	mc.ConstrainPitch = cf.constrainPitch
	mc.PitchMode = pitchMode
	mc.MonoLowestOnly = cf.monoLowest
	mc.Dedupe = cf.dedupe
	mc.PreQuantize = cf.preQuantize
	mc.QuantizationResolution = cf.gridRes
	mc.VelocityCutoff = cf.velocityCutoff

	if err := mc.Validate(); err != nil {
		return nil, err
	}

	return &convert.Options{
		Mapper:       mc,
		Tuning:       tun,
		MaxFret:      cf.maxFret,
		SingleString: cf.singleString,
		Nudge:        cf.nudge,
		Track:        cf.track,
		Staccato:     cf.staccato,
		MaxLineWidth: cf.maxLineWidth,
		Overwrite:    cf.yes,
	}, nil
}

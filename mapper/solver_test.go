package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/tuning"
)

func standardBoard(t *testing.T, singleString int) *fretboard.Fretboard {
	t.Helper()
	tun, err := tuning.ByName("STANDARD")
	assert.NoError(t, err)
	fb, err := fretboard.New(tun, 24, singleString)
	assert.NoError(t, err)
	return fb
}

func run(beats float64, pitches ...int) []model.NoteEvent {
	var events []model.NoteEvent
	start := 0.0
	for _, p := range pitches {
		events = append(events, model.NoteEvent{Pitch: p, Start: start, Duration: beats, Velocity: 90})
		start += beats
	}
	return events
}

func TestSingleStringScale(t *testing.T) {
	// C4 D4 E4 F4 G4 forced onto the G string
	fb := standardBoard(t, 3)
	events := run(0.25, 60, 62, 64, 65, 67)

	res, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	assert.Len(t, res.Frames, 5)

	wantFrets := []int{5, 7, 9, 10, 12}
	for i, f := range res.Frames {
		assert.True(t, f.Mono())
		assert.Equal(t, 2, f.Positions[0].String)
		assert.Equal(t, wantFrets[i], f.Positions[0].Fret)
	}

	// the E4->F4 and F4->G4 transitions are hammer-ons
	assert.Equal(t, model.ArtHammerOn, res.Articulations[3])
	assert.Equal(t, model.ArtHammerOn, res.Articulations[4])
}

func TestOpenStringPreference(t *testing.T) {
	// E2, the lowest open of STANDARD, maps to the open sixth string
	fb := standardBoard(t, 0)
	events := run(0.5, 40)

	res, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	assert.Len(t, res.Frames, 1)
	assert.Equal(t, model.Position{String: 5, Fret: 0}, res.Frames[0].Positions[0].Position)
}

func TestUnplayableChordBecomesRest(t *testing.T) {
	// a chromatic cluster has no distinct-string shape within the span
	fb := standardBoard(t, 0)
	events := []model.NoteEvent{
		{Pitch: 64, Start: 0, Duration: 0.5, Velocity: 90},
		{Pitch: 60, Start: 1, Duration: 0.5, Velocity: 90},
		{Pitch: 61, Start: 1, Duration: 0.5, Velocity: 90},
		{Pitch: 62, Start: 1, Duration: 0.5, Velocity: 90},
		{Pitch: 64, Start: 2, Duration: 0.5, Velocity: 90},
	}

	res, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	assert.Len(t, res.Frames, 3)
	assert.False(t, res.Frames[0].Rest)
	assert.True(t, res.Frames[1].Rest)
	assert.Empty(t, res.Frames[1].Positions)
	assert.False(t, res.Frames[2].Rest)
	assert.Equal(t, 1, res.Summary.RestFrames)

	// adjacent frames keep their timing
	assert.Equal(t, 0.0, res.Frames[0].Frame.Start)
	assert.Equal(t, 1.0, res.Frames[1].Frame.Start)
	assert.Equal(t, 2.0, res.Frames[2].Frame.Start)
}

func TestSweetSpotSteering(t *testing.T) {
	// F#3 has no home on the G string and falls to the D string fret 4
	fb := standardBoard(t, 0)
	events := run(0.5, 54)

	res, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	assert.Equal(t, model.Position{String: 3, Fret: 4}, res.Frames[0].Positions[0].Position)

	cfg := Default()
	cfg.SweetSpotHigh = 8
	res2, err := Map(events, fb, cfg, nil)
	assert.NoError(t, err)
	assert.Equal(t, res.Frames[0].Positions[0].Position, res2.Frames[0].Positions[0].Position)
}

func TestPreferOpenPicksOpenAlternative(t *testing.T) {
	// B3 can be the open second string or the G string fret 4
	fb := standardBoard(t, 0)
	events := run(0.5, 59)

	cfg := Default()
	cfg.IgnoreOpen = false
	cfg.PreferOpen = true
	res, err := Map(events, fb, cfg, nil)
	assert.NoError(t, err)
	assert.Equal(t, model.Position{String: 1, Fret: 0}, res.Frames[0].Positions[0].Position)
}

func TestChosenPositionsSoundTheirPitch(t *testing.T) {
	fb := standardBoard(t, 0)
	tun := fb.Tuning
	events := run(0.25, 40, 45, 52, 57, 60, 64, 67, 71, 76)

	res, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	for _, f := range res.Frames {
		seen := map[int]bool{}
		for _, p := range f.Positions {
			assert.Equal(t, p.Event.Pitch, tun.OpenPitch(p.String)+p.Fret)
			assert.False(t, seen[p.String], "string used twice in one frame")
			seen[p.String] = true
		}
		if f.Shape.NumFretted > 0 {
			assert.LessOrEqual(t, f.Shape.MaxFret-f.Shape.MinFret, Default().UnplayableFretSpan)
		}
	}
}

func TestDeterminism(t *testing.T) {
	fb := standardBoard(t, 0)
	events := run(0.25, 60, 64, 67, 62, 65, 69, 59, 64)
	events = append(events, model.NoteEvent{Pitch: 55, Start: 0, Duration: 1, Velocity: 80})

	a, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	b, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	assert.Equal(t, a.Frames, b.Frames)
	assert.Equal(t, a.Articulations, b.Articulations)
}

func TestArticulationLocality(t *testing.T) {
	// removing the articulation pass never changes a position
	fb := standardBoard(t, 0)
	events := run(0.25, 60, 62, 64, 65, 67, 69, 71, 72)

	with, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)

	cfg := Default()
	cfg.NoArticulations = true
	without, err := Map(events, fb, cfg, nil)
	assert.NoError(t, err)

	assert.Equal(t, with.Frames, without.Frames)
	for _, a := range without.Articulations {
		assert.Equal(t, model.ArtNone, a)
	}
}

func TestHighFretPenaltyMonotonicity(t *testing.T) {
	fb := standardBoard(t, 0)
	events := run(0.25, 64, 67, 71, 74, 76, 72, 69)

	maxFret := func(cfg *Config) int {
		res, err := Map(events, fb, cfg, nil)
		assert.NoError(t, err)
		max := 0
		for _, f := range res.Frames {
			if f.Shape.MaxFret > max {
				max = f.Shape.MaxFret
			}
		}
		return max
	}

	low := Default()
	high := Default()
	high.HighFretPenalty = 50
	assert.GreaterOrEqual(t, maxFret(low), maxFret(high))
}

func TestSingleStringDegeneratesToLinearWalk(t *testing.T) {
	fb := standardBoard(t, 1)
	events := run(0.25, 64, 65, 67)

	res, err := Map(events, fb, Default(), nil)
	assert.NoError(t, err)
	for _, f := range res.Frames {
		assert.Equal(t, 0, f.Positions[0].String)
	}
	assert.Equal(t, []int{0, 1, 3}, []int{
		res.Frames[0].Positions[0].Fret,
		res.Frames[1].Positions[0].Fret,
		res.Frames[2].Positions[0].Fret,
	})
}

func TestNeighborSpanGateForcesRest(t *testing.T) {
	fb := standardBoard(t, 1)
	cfg := Default()
	cfg.CountFretSpanAcrossNeighbors = true

	// fret 1 then fret 19 on the same string: the joint span fails
	events := run(0.25, 65, 83)
	res, err := Map(events, fb, cfg, nil)
	assert.NoError(t, err)
	assert.False(t, res.Frames[0].Rest)
	assert.True(t, res.Frames[1].Rest)
}

package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gofrets/gofrets/model"
)

// monoFrames builds consecutive single-note chosen frames on one
// string from (start, fret) pairs.
func monoFrames(str int, notes [][2]float64) []model.ChosenFrame {
	var frames []model.ChosenFrame
	for _, n := range notes {
		pos := model.ChosenPosition{
			Position: model.Position{String: str, Fret: int(n[1])},
		}
		frames = append(frames, model.ChosenFrame{
			Frame: model.Frame{
				Start:  n[0],
				Events: []model.NoteEvent{{Start: n[0], Duration: 0.1}},
			},
			Positions: []model.ChosenPosition{pos},
			Shape:     model.Signature([]model.ChosenPosition{pos}),
		})
	}
	return frames
}

func TestFastRunIsHammeredUp(t *testing.T) {
	// A4 B4 C5 at a tenth of a beat apart, rising frets on one string
	frames := monoFrames(0, [][2]float64{{0, 5}, {0.1, 7}, {0.2, 8}})
	arts := InferArticulations(frames, Default())
	assert.Equal(t, []model.Articulation{model.ArtNone, model.ArtHammerOn, model.ArtHammerOn}, arts)
}

func TestDescendingLegatoIsPulledOff(t *testing.T) {
	frames := monoFrames(0, [][2]float64{{0, 8}, {0.1, 7}, {0.2, 5}})
	arts := InferArticulations(frames, Default())
	assert.Equal(t, model.ArtPullOff, arts[1])
	assert.Equal(t, model.ArtPullOff, arts[2])
}

func TestWideLegatoJumpIsSlide(t *testing.T) {
	frames := monoFrames(0, [][2]float64{{0, 3}, {0.1, 9}})
	arts := InferArticulations(frames, Default())
	assert.Equal(t, model.ArtSlideUp, arts[1])

	frames = monoFrames(0, [][2]float64{{0, 9}, {0.1, 3}})
	arts = InferArticulations(frames, Default())
	assert.Equal(t, model.ArtSlideDown, arts[1])
}

func TestSlowGapIsNotLegato(t *testing.T) {
	frames := monoFrames(0, [][2]float64{{0, 5}, {2, 7}})
	arts := InferArticulations(frames, Default())
	assert.Equal(t, model.ArtNone, arts[1])
}

func TestDifferentStringsAreNotLegato(t *testing.T) {
	frames := monoFrames(0, [][2]float64{{0, 5}})
	other := monoFrames(1, [][2]float64{{0.1, 7}})
	arts := InferArticulations(append(frames, other...), Default())
	assert.Equal(t, model.ArtNone, arts[1])
}

func TestSameFretIsReArticulation(t *testing.T) {
	frames := monoFrames(0, [][2]float64{{0, 5}, {0.1, 5}})
	arts := InferArticulations(frames, Default())
	assert.Equal(t, model.ArtNone, arts[1])
}

func TestTappingRunUpgrade(t *testing.T) {
	// a legato run with a jump past the hand span needs the right hand
	frames := monoFrames(0, [][2]float64{{0, 5}, {0.1, 12}, {0.2, 5}, {0.3, 12}})
	arts := InferArticulations(frames, Default())
	assert.Equal(t, model.ArtSlideUp, arts[1])
	assert.Equal(t, model.ArtTap, arts[2])
	assert.Equal(t, model.ArtTap, arts[3])
}

func TestScaleRunStaysLegato(t *testing.T) {
	// adjacent steps never exceed hand reach, so no taps appear even
	// though the run covers seven frets overall
	frames := monoFrames(2, [][2]float64{{0, 5}, {0.25, 7}, {0.5, 9}, {0.75, 10}, {1.0, 12}})
	arts := InferArticulations(frames, Default())
	for i := 1; i < len(arts); i++ {
		assert.Equal(t, model.ArtHammerOn, arts[i])
	}
}

func TestChordFramesHaveNoArticulation(t *testing.T) {
	chord := model.ChosenFrame{
		Frame: model.Frame{Start: 0.1, Events: []model.NoteEvent{{}, {}}},
		Positions: []model.ChosenPosition{
			{Position: model.Position{String: 0, Fret: 3}},
			{Position: model.Position{String: 1, Fret: 5}},
		},
	}
	frames := append(monoFrames(0, [][2]float64{{0, 5}}), chord)
	arts := InferArticulations(frames, Default())
	assert.Equal(t, model.ArtNone, arts[1])
}

package midifmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/gofrets/gofrets/model"
)

func sampleSong() *model.Song {
	song := model.NewSong()
	song.Tempo = 96
	song.Time = model.TimeSignature{Numerator: 3, Denominator: 4}
	song.Tracks = []model.Track{{Events: []model.NoteEvent{
		{Pitch: 60, Start: 0, Duration: 1, Velocity: 100},
		{Pitch: 64, Start: 1, Duration: 0.5, Velocity: 80},
		{Pitch: 67, Start: 1.5, Duration: 1.5, Velocity: 90},
	}}}
	return song
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteTo(sampleSong(), &buf))

	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)

	back, err := FromSMF(parsed, 0, "")
	assert.NoError(t, err)
	assert.InDelta(t, 96.0, back.Tempo, 0.01)
	assert.Equal(t, model.TimeSignature{Numerator: 3, Denominator: 4}, back.Time)

	events := back.AllEvents()
	assert.Len(t, events, 3)
	assert.Equal(t, 60, events[0].Pitch)
	assert.InDelta(t, 0.0, events[0].Start, 1e-6)
	assert.InDelta(t, 1.0, events[0].Duration, 1e-6)
	assert.Equal(t, 100, events[0].Velocity)
	assert.Equal(t, 67, events[2].Pitch)
	assert.InDelta(t, 1.5, events[2].Start, 1e-6)
}

func TestOverlappingNotesPairFIFO(t *testing.T) {
	song := model.NewSong()
	song.Tracks = []model.Track{{Events: []model.NoteEvent{
		{Pitch: 60, Start: 0, Duration: 2, Velocity: 90},
		{Pitch: 60, Start: 1, Duration: 2, Velocity: 90},
	}}}

	var buf bytes.Buffer
	assert.NoError(t, WriteTo(song, &buf))
	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	back, err := FromSMF(parsed, 0, "")
	assert.NoError(t, err)

	events := back.AllEvents()
	assert.Len(t, events, 2)
	// the oldest note-on closes first
	assert.InDelta(t, 0.0, events[0].Start, 1e-6)
	assert.InDelta(t, 2.0, events[0].Duration, 1e-6)
}

func TestTrackSelectionOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteTo(sampleSong(), &buf))
	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)

	_, err = FromSMF(parsed, 9, "x.mid")
	assert.Error(t, err)
	var inErr *model.InputError
	assert.ErrorAs(t, err, &inErr)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("/nonexistent/nope.mid", 0)
	assert.Error(t, err)
}

package convert

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gofrets/gofrets/mapper"
	"github.com/gofrets/gofrets/midifmt"
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/tuning"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindMIDI, KindOf("song.mid"))
	assert.Equal(t, KindMIDI, KindOf("SONG.MIDI"))
	assert.Equal(t, KindABC, KindOf("tune.abc"))
	assert.Equal(t, KindVexTab, KindOf("riff.vex"))
	assert.Equal(t, KindASCIITab, KindOf("solo.tab"))
	assert.Equal(t, KindAudio, KindOf("take.wav"))
	assert.Equal(t, KindUnknown, KindOf("README"))
}

func testOptions(t *testing.T) *Options {
	t.Helper()
	tun, err := tuning.ByName("STANDARD")
	assert.NoError(t, err)
	return &Options{
		Mapper:       mapper.Default(),
		Tuning:       tun,
		MaxFret:      24,
		MaxLineWidth: 40,
		Overwrite:    true,
	}
}

func writeSampleMidi(t *testing.T, dir string) string {
	t.Helper()
	song := model.NewSong()
	song.Tracks = []model.Track{{Events: []model.NoteEvent{
		{Pitch: 64, Start: 0, Duration: 0.5, Velocity: 90},
		{Pitch: 67, Start: 0.5, Duration: 0.5, Velocity: 90},
		{Pitch: 71, Start: 1.0, Duration: 0.5, Velocity: 90},
	}}}
	path := filepath.Join(dir, "sample.mid")
	assert.NoError(t, midifmt.WriteFile(song, path))
	return path
}

func TestMidiToTab(t *testing.T) {
	dir := t.TempDir()
	in := writeSampleMidi(t, dir)
	out := filepath.Join(dir, "sample.tab")

	summary, err := Run(in, out, testOptions(t), slog.Default())
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.FramesMapped)

	data, err := os.ReadFile(out)
	assert.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "// Tuning: STANDARD")
	assert.Contains(t, text, "// Title: sample")
	assert.Contains(t, text, "e|")
}

func TestMidiToTabToMidiPreservesPitches(t *testing.T) {
	dir := t.TempDir()
	in := writeSampleMidi(t, dir)
	tabPath := filepath.Join(dir, "sample.tab")
	midPath := filepath.Join(dir, "back.mid")

	opts := testOptions(t)
	_, err := Run(in, tabPath, opts, slog.Default())
	assert.NoError(t, err)
	_, err = Run(tabPath, midPath, opts, slog.Default())
	assert.NoError(t, err)

	song, err := midifmt.ReadFile(midPath, 0)
	assert.NoError(t, err)
	events := song.AllEvents()
	assert.Len(t, events, 3)
	assert.Equal(t, []int{64, 67, 71}, []int{events[0].Pitch, events[1].Pitch, events[2].Pitch})
	assert.InDelta(t, 0.5, events[1].Start, 0.125)
	assert.InDelta(t, 1.0, events[2].Start, 0.125)
}

func TestMidiToABC(t *testing.T) {
	dir := t.TempDir()
	in := writeSampleMidi(t, dir)
	out := filepath.Join(dir, "sample.abc")

	_, err := Run(in, out, testOptions(t), slog.Default())
	assert.NoError(t, err)
	data, err := os.ReadFile(out)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "X:1")
}

func TestRefusesOverwriteWithoutYes(t *testing.T) {
	dir := t.TempDir()
	in := writeSampleMidi(t, dir)
	out := filepath.Join(dir, "sample.tab")

	opts := testOptions(t)
	_, err := Run(in, out, opts, slog.Default())
	assert.NoError(t, err)

	opts.Overwrite = false
	_, err = Run(in, out, opts, slog.Default())
	assert.Error(t, err)
}

func TestAudioInputRejected(t *testing.T) {
	opts := testOptions(t)
	_, err := Run("take.wav", "out.tab", opts, slog.Default())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pitch pipeline")
}

func TestUnknownExtensionsRejected(t *testing.T) {
	opts := testOptions(t)
	_, err := Run("in.mid", "out.xyz", opts, slog.Default())
	assert.Error(t, err)
}

func TestNudgeShiftsEvents(t *testing.T) {
	dir := t.TempDir()
	in := writeSampleMidi(t, dir)
	out := filepath.Join(dir, "nudged.tab")

	opts := testOptions(t)
	opts.Nudge = 4 // one full beat
	_, err := Run(in, out, opts, slog.Default())
	assert.NoError(t, err)

	data, err := os.ReadFile(out)
	assert.NoError(t, err)
	// the first note (open high e) now sits one beat into the measure,
	// so no row starts with a 0
	for _, line := range splitRows(string(data)) {
		assert.NotEqual(t, byte('0'), line[2])
	}
}

func splitRows(text string) []string {
	var rows []string
	for _, l := range splitLines(text) {
		if len(l) > 2 && l[1] == '|' {
			rows = append(rows, l)
		}
	}
	return rows
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return lines
}

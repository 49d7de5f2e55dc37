package midifmt

import (
	"io"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/gofrets/gofrets/model"
)

const ticksPerBeat = 480

// ToSMF builds a standard MIDI file from a Song: tempo and meter on
// track 0, one note track per song track.
func ToSMF(song *model.Song) *smf.SMF {
	var out smf.SMF
	out.TimeFormat = smf.MetricTicks(ticksPerBeat)

	var meta smf.Track
	meta = append(meta, smf.Event{Delta: 0, Message: smf.MetaTempo(song.Tempo)})
	num := uint8(song.Time.Numerator)
	den := uint8(song.Time.Denominator)
	if num == 0 || den == 0 {
		num, den = 4, 4
	}
	meta = append(meta, smf.Event{Delta: 0, Message: smf.MetaMeter(num, den)})
	meta.Close(0)
	out.Tracks = append(out.Tracks, meta)

	for _, track := range song.Tracks {
		out.Tracks = append(out.Tracks, noteTrack(track.Events))
	}
	return &out
}

type timedMessage struct {
	tick uint32
	off  bool // note-offs sort before note-ons at the same tick
	msg  smf.Message
}

func noteTrack(events []model.NoteEvent) smf.Track {
	const channel = 0

	var msgs []timedMessage
	for _, e := range events {
		if e.Pitch < 0 || e.Pitch > 127 {
			continue
		}
		vel := e.Velocity
		if vel <= 0 {
			vel = 90
		} else if vel > 127 {
			vel = 127
		}
		on := beatTicks(e.Start)
		off := beatTicks(e.End())
		if off <= on {
			off = on + 1
		}
		msgs = append(msgs, timedMessage{tick: on, msg: smf.Message(midi.NoteOn(channel, uint8(e.Pitch), uint8(vel)))})
		msgs = append(msgs, timedMessage{tick: off, off: true, msg: smf.Message(midi.NoteOff(channel, uint8(e.Pitch)))})
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var track smf.Track
	var lastTick uint32
	for _, m := range msgs {
		track = append(track, smf.Event{Delta: m.tick - lastTick, Message: m.msg})
		lastTick = m.tick
	}
	track.Close(0)
	return track
}

func beatTicks(beat float64) uint32 {
	t := math.Round(beat * ticksPerBeat)
	if t < 0 {
		return 0
	}
	return uint32(t)
}

// WriteFile renders a Song to a .mid file.
func WriteFile(song *model.Song, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTo(song, f)
}

func WriteTo(song *model.Song, w io.Writer) error {
	_, err := ToSMF(song).WriteTo(w)
	return err
}

package midifmt

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/gofrets/gofrets/model"
)

// ReadFile parses a MIDI file into a Song. The smf reader can panic on
// hostile input, so the panic is converted to an input error here.
// https://github.com/gomidi/midi/issues/20
func ReadFile(path string, trackNum int) (s *model.Song, e error) {
	defer func() {
		if r := recover(); r != nil {
			e = &model.InputError{Path: path, Msg: fmt.Sprintf("midi parse panic: %v", r)}
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, &model.InputError{Path: path, Msg: "unreadable midi: " + err.Error()}
	}
	return FromSMF(parsed, trackNum, path)
}

// FromSMF converts a parsed SMF into a Song, pairing note-on/off by
// absolute tick. trackNum selects one 1-based track, 0 means all.
func FromSMF(parsed *smf.SMF, trackNum int, path string) (*model.Song, error) {
	song := model.NewSong()

	ticksPerBeat := 480.0
	if tf, ok := parsed.TimeFormat.(smf.MetricTicks); ok && int(tf) > 0 {
		ticksPerBeat = float64(int(tf))
	}

	tracks := parsed.Tracks
	if trackNum != 0 {
		if trackNum < 1 || trackNum > len(tracks) {
			return nil, &model.InputError{
				Path: path,
				Msg:  fmt.Sprintf("track %d does not exist, file has %d tracks", trackNum, len(tracks)),
			}
		}
		tracks = tracks[trackNum-1 : trackNum]
	}

	for _, events := range parsed.Tracks {
		for _, ev := range events {
			var bpm float64
			var num, den uint8
			switch {
			case ev.Message.GetMetaTempo(&bpm):
				if bpm > 0 {
					song.Tempo = bpm
				}
			case ev.Message.GetMetaMeter(&num, &den):
				if num > 0 && den > 0 {
					song.Time = model.TimeSignature{Numerator: int(num), Denominator: int(den)}
				}
			}
		}
	}

	for _, events := range tracks {
		track := model.Track{}
		var absTicks int64
		// FIFO per pitch: overlapping note-ons close oldest first
		active := map[uint8][]model.NoteEvent{}

		for _, ev := range events {
			absTicks += int64(ev.Delta)
			beat := float64(absTicks) / ticksPerBeat

			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				active[key] = append(active[key], model.NoteEvent{
					Pitch:    int(key),
					Start:    beat,
					Velocity: int(vel),
				})
			case ev.Message.GetNoteEnd(&ch, &key):
				open := active[key]
				if len(open) == 0 {
					continue
				}
				started := open[0]
				active[key] = open[1:]
				started.Duration = beat - started.Start
				track.Events = append(track.Events, started)
			}
		}

		// close notes still sounding at track end
		endBeat := float64(absTicks) / ticksPerBeat
		for _, open := range active {
			for _, started := range open {
				started.Duration = endBeat - started.Start
				if started.Duration <= 0 {
					started.Duration = 0.25
				}
				track.Events = append(track.Events, started)
			}
		}

		sort.SliceStable(track.Events, func(i, j int) bool {
			if track.Events[i].Start != track.Events[j].Start {
				return track.Events[i].Start < track.Events[j].Start
			}
			return track.Events[i].Pitch < track.Events[j].Pitch
		})

		if len(track.Events) > 0 {
			song.Tracks = append(song.Tracks, track)
		}
	}

	return song, nil
}

package abc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrets/gofrets/model"
)

var (
	headerFieldRe = regexp.MustCompile(`(?m)^([A-Z]):\s*(.*)$`)
	tokenRe       = regexp.MustCompile(`(\[[A-Ga-g,\^=_']*\]|[_\^=]?[A-Ga-g][,']*|z)([\d/]*)`)
	noteRe        = regexp.MustCompile(`[_\^=]?[A-Ga-g][,']*`)
	keyFieldRe    = regexp.MustCompile(`(?m)^K:.*$`)
)

// Parse reads ABC notation into a Song, handling chords, rests and
// duration multipliers. The body starts after the K: field per the ABC
// convention.
func Parse(text string) (*model.Song, error) {
	song := model.NewSong()
	track := model.Track{}

	defaultLen := 0.5 // beats

	for _, m := range headerFieldRe.FindAllStringSubmatch(text, -1) {
		key, value := m[1], strings.TrimSpace(m[2])
		switch key {
		case "T":
			if value != "" {
				song.Title = value
			}
		case "Q":
			v := value
			if i := strings.LastIndex(v, "="); i >= 0 {
				v = v[i+1:]
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
				song.Tempo = f
			}
		case "M":
			parts := strings.Split(value, "/")
			if len(parts) == 2 {
				num, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
				den, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
				if err1 == nil && err2 == nil && num > 0 && den > 0 {
					song.Time = model.TimeSignature{Numerator: num, Denominator: den}
					if float64(num)/float64(den) < 0.75 {
						defaultLen = 0.25
					} else {
						defaultLen = 0.5
					}
				}
			}
		case "L":
			defaultLen = durationMultiplier(value) * 4.0
		}
	}

	bodyStart := 0
	if loc := keyFieldRe.FindStringIndex(text); loc != nil {
		bodyStart = loc[1]
	}

	currentTime := 0.0
	for _, m := range tokenRe.FindAllStringSubmatch(text[bodyStart:], -1) {
		token, durStr := m[1], m[2]
		duration := durationMultiplier(durStr) * defaultLen

		switch {
		case strings.HasPrefix(token, "["):
			for _, noteStr := range noteRe.FindAllString(token, -1) {
				if pitch, ok := noteToPitch(noteStr); ok {
					track.Events = append(track.Events, model.NoteEvent{
						Pitch: pitch, Start: currentTime, Duration: duration, Velocity: 90,
					})
				}
			}
		case token != "z":
			if pitch, ok := noteToPitch(token); ok {
				track.Events = append(track.Events, model.NoteEvent{
					Pitch: pitch, Start: currentTime, Duration: duration, Velocity: 90,
				})
			}
		}
		currentTime += duration
	}

	if len(track.Events) == 0 {
		return nil, &model.InputError{Msg: "no notes found in abc input"}
	}
	song.Tracks = append(song.Tracks, track)
	return song, nil
}

var abcPitchClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// noteToPitch converts one ABC note token (e.g. ^C, g') to a pitch.
// Uppercase letters sit in the C4 octave, lowercase in C5; commas and
// apostrophes shift octaves.
func noteToPitch(s string) (int, bool) {
	accidental := 0
	switch {
	case strings.HasPrefix(s, "^"):
		accidental = 1
		s = s[1:]
	case strings.HasPrefix(s, "_"):
		accidental = -1
		s = s[1:]
	case strings.HasPrefix(s, "="):
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	c := s[0]
	base, ok := abcPitchClasses[byte(upper(c))]
	if !ok {
		return 0, false
	}
	octaveBase := 60
	if c >= 'a' {
		octaveBase = 72
	}
	shift := (strings.Count(s, "'") - strings.Count(s, ",")) * 12
	return base + octaveBase + accidental + shift, true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// durationMultiplier parses ABC duration suffixes: "2", "/2", "3/2".
func durationMultiplier(s string) float64 {
	if s == "" {
		return 1
	}
	if strings.Contains(s, "/") {
		parts := strings.SplitN(s, "/", 2)
		num, den := 1.0, 2.0
		if parts[0] != "" {
			if f, err := strconv.ParseFloat(parts[0], 64); err == nil {
				num = f
			}
		}
		if parts[1] != "" {
			if f, err := strconv.ParseFloat(parts[1], 64); err == nil && f != 0 {
				den = f
			}
		}
		return num / den
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 1
}

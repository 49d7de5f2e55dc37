package theory

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// pitchClassNames follows the conventional mixed-accidental spelling
// used on tab sites.
var pitchClassNames = [12]string{
	"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B",
}

var pitchClasses = map[string]int{
	"C": 0, "B#": 0,
	"C#": 1, "DB": 1,
	"D":  2,
	"D#": 3, "EB": 3,
	"E": 4, "FB": 4,
	"F": 5, "E#": 5,
	"F#": 6, "GB": 6,
	"G":  7,
	"G#": 8, "AB": 8,
	"A":  9,
	"A#": 10, "BB": 10,
	"B": 11, "CB": 11,
}

var noteNameRe = regexp.MustCompile(`^([A-Ga-g])([#b]?)(-?\d+)$`)

// NoteNameToPitch converts "A4", "C#5" or "Eb3" to its semitone index
// (0 = C-1, MIDI numbering).
func NoteNameToPitch(name string) (int, error) {
	m := noteNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	letter := m[1]
	if letter >= "a" {
		letter = string(letter[0] - 'a' + 'A')
	}
	key := letter
	if m[2] == "#" {
		key += "#"
	} else if m[2] == "b" {
		key += "B"
	}
	class, ok := pitchClasses[key]
	if !ok {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	return class + (octave+1)*12, nil
}

// PitchToNoteName converts a semitone index to its note name, e.g.
// 60 -> "C4".
func PitchToNoteName(pitch int) string {
	if pitch < 0 || pitch > 127 {
		return fmt.Sprintf("?%d", pitch)
	}
	return fmt.Sprintf("%s%d", pitchClassNames[pitch%12], pitch/12-1)
}

// PitchToHz converts a semitone index to its frequency with A4 = 440 Hz.
func PitchToHz(pitch int) float64 {
	return 440.0 / 32.0 * math.Pow(2, float64(pitch-9)/12)
}

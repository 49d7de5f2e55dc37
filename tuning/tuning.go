package tuning

import (
	"fmt"
	"strings"

	"github.com/gofrets/gofrets/theory"
)

// Tuning is an ordered set of open-string pitches, index 0 being the
// highest-sounding string, plus a capo offset applied to every string.
type Tuning struct {
	Name string
	Open []int // open-string pitches, highest first
	Capo int
}

// presets are spelled highest string first, matching tab row order.
var presets = map[string][]string{
	"STANDARD":              {"E4", "B3", "G3", "D3", "A2", "E2"},
	"E_FLAT":                {"Eb4", "Bb3", "Gb3", "Db3", "Ab2", "Eb2"},
	"DROP_D":                {"E4", "B3", "G3", "D3", "A2", "D2"},
	"DROP_C":                {"D4", "A3", "F3", "C3", "G2", "C2"},
	"C_SHARP_STANDARD":      {"C#4", "G#3", "E3", "B2", "F#2", "C#2"},
	"OPEN_G":                {"D4", "B3", "G3", "D3", "G2", "D2"},
	"OPEN_C6":               {"E4", "C4", "G3", "C3", "A2", "C2"},
	"BASS_STANDARD":         {"G2", "D2", "A1", "E1"},
	"BASS_DROP_D":           {"G2", "D2", "A1", "D1"},
	"BASS_E_FLAT":           {"Gb2", "Db2", "Ab1", "Eb1"},
	"SEVEN_STRING_STANDARD": {"E4", "B3", "G3", "D3", "A2", "E2", "B1"},
	"BARITONE_A":            {"A3", "E3", "C3", "G2", "D2", "A1"},
	"BARITONE_B":            {"B3", "F#3", "D3", "A2", "E2", "B1"},
	"BARITONE_C":            {"C4", "G3", "Eb3", "Bb2", "F2", "C2"},
	// PIANO is a full-range passthrough pseudo-tuning: one "string"
	// open at A0 so every keyboard pitch has exactly one position.
	"PIANO": {"A0"},
}

// presetOrder keeps listings stable.
var presetOrder = []string{
	"STANDARD", "E_FLAT", "DROP_D", "DROP_C", "C_SHARP_STANDARD",
	"OPEN_G", "OPEN_C6", "BASS_STANDARD", "BASS_DROP_D", "BASS_E_FLAT",
	"SEVEN_STRING_STANDARD", "BARITONE_A", "BARITONE_B", "BARITONE_C",
	"PIANO",
}

// ByName resolves a preset name (case-insensitive).
func ByName(name string) (Tuning, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	notes, ok := presets[key]
	if !ok {
		return Tuning{}, fmt.Errorf("unknown tuning %q", name)
	}
	open := make([]int, len(notes))
	for i, n := range notes {
		p, err := theory.NoteNameToPitch(n)
		if err != nil {
			return Tuning{}, err
		}
		open[i] = p
	}
	return Tuning{Name: key, Open: open}, nil
}

// Parse accepts either a preset name or a space-separated note list
// (highest string first, e.g. "E4 B3 G3 D3 A2 E2").
func Parse(s string) (Tuning, error) {
	if t, err := ByName(s); err == nil {
		return t, nil
	}
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Tuning{}, fmt.Errorf("unknown tuning %q", s)
	}
	open := make([]int, len(fields))
	for i, f := range fields {
		p, err := theory.NoteNameToPitch(f)
		if err != nil {
			return Tuning{}, fmt.Errorf("tuning %q: %w", s, err)
		}
		open[i] = p
	}
	return Tuning{Name: "CUSTOM", Open: open}, nil
}

// Names lists the preset names in catalogue order.
func Names() []string {
	res := make([]string, len(presetOrder))
	copy(res, presetOrder)
	return res
}

// Catalogue returns every preset, in catalogue order.
func Catalogue() []Tuning {
	var res []Tuning
	for _, name := range presetOrder {
		t, _ := ByName(name)
		res = append(res, t)
	}
	return res
}

func (t Tuning) NumStrings() int {
	return len(t.Open)
}

// OpenPitch is the sounding pitch of string s with the capo applied.
func (t Tuning) OpenPitch(s int) int {
	return t.Open[s] + t.Capo
}

// Describe renders the open-string notes, highest first.
func (t Tuning) Describe() string {
	names := make([]string, len(t.Open))
	for i, p := range t.Open {
		names[i] = theory.PitchToNoteName(p)
	}
	return strings.Join(names, " ")
}

// RowNames are the per-string labels used in tab output: the note
// letter of each open string. On guitar-sized sets the highest string
// is lowercased, the usual e-over-E convention; bass staves keep
// uppercase.
func (t Tuning) RowNames() []string {
	res := make([]string, len(t.Open))
	for i, p := range t.Open {
		name := theory.PitchToNoteName(p)
		letter := name[:1]
		if i == 0 && len(t.Open) >= 6 {
			letter = strings.ToLower(letter)
		}
		res[i] = letter
	}
	return res
}

package fretboard

import (
	"fmt"
	"sort"

	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/tuning"
)

// pianoMaxFret spans A0..C8 on the single PIANO pseudo-string.
const pianoMaxFret = 87

// Fretboard derives the pitch grid from a tuning, a capo and a fret
// count. It is immutable after New.
type Fretboard struct {
	Tuning       tuning.Tuning
	MaxFret      int
	SingleString int // 0 = off, otherwise 1-based string index
}

func New(t tuning.Tuning, maxFret int, singleString int) (*Fretboard, error) {
	if t.NumStrings() == 0 {
		return nil, fmt.Errorf("tuning has no strings")
	}
	if t.Name == "PIANO" {
		maxFret = pianoMaxFret
	}
	if maxFret < 1 {
		return nil, fmt.Errorf("max fret must be positive, got %d", maxFret)
	}
	if t.Capo < 0 || t.Capo > maxFret {
		return nil, fmt.Errorf("capo %d outside [0, %d]", t.Capo, maxFret)
	}
	if singleString < 0 || singleString > t.NumStrings() {
		return nil, fmt.Errorf("single string %d outside 1..%d", singleString, t.NumStrings())
	}
	return &Fretboard{Tuning: t, MaxFret: maxFret, SingleString: singleString}, nil
}

func (f *Fretboard) NumStrings() int {
	return f.Tuning.NumStrings()
}

// PositionsFor enumerates every position sounding the given pitch,
// ordered by fret then string. Empty when the pitch is unplayable.
func (f *Fretboard) PositionsFor(pitch int) []model.Position {
	var res []model.Position
	for s := 0; s < f.NumStrings(); s++ {
		if f.SingleString != 0 && s != f.SingleString-1 {
			continue
		}
		fret := pitch - f.Tuning.OpenPitch(s)
		if fret >= 0 && fret <= f.MaxFret {
			res = append(res, model.Position{String: s, Fret: fret})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Fret != res[j].Fret {
			return res[i].Fret < res[j].Fret
		}
		return res[i].String < res[j].String
	})
	return res
}

// HasOpen reports whether the pitch can be played on an open string.
func (f *Fretboard) HasOpen(pitch int) bool {
	for _, p := range f.PositionsFor(pitch) {
		if p.Open() {
			return true
		}
	}
	return false
}

// PitchRange is the (min, max) of reachable pitches.
func (f *Fretboard) PitchRange() (int, int) {
	first := true
	var lo, hi int
	for s := 0; s < f.NumStrings(); s++ {
		if f.SingleString != 0 && s != f.SingleString-1 {
			continue
		}
		open := f.Tuning.OpenPitch(s)
		if first {
			lo, hi = open, open+f.MaxFret
			first = false
			continue
		}
		if open < lo {
			lo = open
		}
		if open+f.MaxFret > hi {
			hi = open + f.MaxFret
		}
	}
	return lo, hi
}

// IsLowString reports whether string s belongs to the lower-sounding
// half of the string set.
func (f *Fretboard) IsLowString(s int) bool {
	return s >= f.NumStrings()/2
}

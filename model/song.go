package model

import "fmt"

type TimeSignature struct {
	Numerator   int
	Denominator int
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// BeatsPerMeasure is the measure length in quarter-note beats.
func (ts TimeSignature) BeatsPerMeasure() float64 {
	if ts.Denominator == 0 {
		return 4
	}
	return float64(ts.Numerator) * 4 / float64(ts.Denominator)
}

type Track struct {
	Events         []NoteEvent
	InstrumentName string
}

// Song is the format-agnostic representation every reader produces and
// every writer consumes.
type Song struct {
	Tracks []Track
	Tempo  float64 // BPM
	Time   TimeSignature
	Title  string
}

func NewSong() *Song {
	return &Song{
		Tempo: 120,
		Time:  TimeSignature{4, 4},
		Title: "Untitled",
	}
}

// AllEvents flattens every track into one slice, in track order.
func (s *Song) AllEvents() []NoteEvent {
	var res []NoteEvent
	for _, t := range s.Tracks {
		res = append(res, t.Events...)
	}
	return res
}

package fretboard

import (
	"fmt"
	"strings"

	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/theory"
	"github.com/gofrets/gofrets/tuning"
)

// Coverage summarises how well one tuning covers an event stream.
type Coverage struct {
	Tuning  tuning.Tuning
	Covered int
	Total   int
}

func (c Coverage) Fits() bool {
	return c.Total > 0 && c.Covered == c.Total
}

// Analyze checks each catalogue tuning against the pitch span of the
// events. Backs the analyze command.
func Analyze(events []model.NoteEvent, maxFret int) []Coverage {
	var res []Coverage
	for _, t := range tuning.Catalogue() {
		fb, err := New(t, maxFret, 0)
		if err != nil {
			continue
		}
		cov := Coverage{Tuning: t, Total: len(events)}
		for _, e := range events {
			if len(fb.PositionsFor(e.Pitch)) > 0 {
				cov.Covered++
			}
		}
		res = append(res, cov)
	}
	return res
}

// Report renders an Analyze result as the text the analyze command
// prints.
func Report(events []model.NoteEvent, coverages []Coverage) string {
	var b strings.Builder
	if len(events) == 0 {
		b.WriteString("no note events found\n")
		return b.String()
	}
	lo, hi := events[0].Pitch, events[0].Pitch
	for _, e := range events {
		if e.Pitch < lo {
			lo = e.Pitch
		}
		if e.Pitch > hi {
			hi = e.Pitch
		}
	}
	fmt.Fprintf(&b, "pitch span: %s..%s (%d notes)\n",
		theory.PitchToNoteName(lo), theory.PitchToNoteName(hi), len(events))
	for _, c := range coverages {
		mark := " "
		if c.Fits() {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %-22s %-28s %d/%d\n",
			mark, c.Tuning.Name, c.Tuning.Describe(), c.Covered, c.Total)
	}
	return b.String()
}

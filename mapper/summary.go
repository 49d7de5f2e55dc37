package mapper

import (
	"fmt"
	"strings"
)

// RunSummary accumulates the non-fatal faults of one run: per-event
// drops and folds, per-frame infeasibility. It backs the final
// diagnostic line.
type RunSummary struct {
	NotesDropped int
	NotesFolded  int
	RestFrames   int
	FramesMapped int
}

// Line renders the accumulated diagnostics, e.g.
// "12 frames mapped, 3 notes dropped, 1 chord unplayable".
func (s *RunSummary) Line() string {
	parts := []string{fmt.Sprintf("%d frames mapped", s.FramesMapped)}
	if s.NotesDropped > 0 {
		parts = append(parts, fmt.Sprintf("%d notes dropped", s.NotesDropped))
	}
	if s.NotesFolded > 0 {
		parts = append(parts, fmt.Sprintf("%d notes octave-folded", s.NotesFolded))
	}
	if s.RestFrames > 0 {
		noun := "chords"
		if s.RestFrames == 1 {
			noun = "chord"
		}
		parts = append(parts, fmt.Sprintf("%d %s unplayable", s.RestFrames, noun))
	}
	return strings.Join(parts, ", ")
}

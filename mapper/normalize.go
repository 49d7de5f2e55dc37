package mapper

import (
	"log/slog"
	"sort"

	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/theory"
)

// Normalize runs the event stream through the toggleable pre-passes
// and groups it into frames. The returned frames are strictly ordered
// by start beat; grouping always happens, everything else is gated by
// the config.
func Normalize(events []model.NoteEvent, fb *fretboard.Fretboard, cfg *Config, log *slog.Logger, sum *RunSummary) []model.Frame {
	work := make([]model.NoteEvent, 0, len(events))
	lo, hi := fb.PitchRange()

	for _, e := range events {
		if cfg.VelocityCutoff > 0 && e.Velocity < cfg.VelocityCutoff {
			sum.NotesDropped++
			log.Debug("note below velocity cutoff", "pitch", theory.PitchToNoteName(e.Pitch), "velocity", e.Velocity)
			continue
		}
		e.Pitch += cfg.Transpose

		if cfg.ConstrainPitch && (e.Pitch < lo || e.Pitch > hi) {
			if cfg.PitchMode == PitchDrop {
				sum.NotesDropped++
				log.Debug("note out of range, dropped", "pitch", theory.PitchToNoteName(e.Pitch))
				continue
			}
			folded := foldIntoRange(e.Pitch, lo, hi)
			if folded < lo || folded > hi {
				sum.NotesDropped++
				log.Debug("note out of range, could not fold", "pitch", theory.PitchToNoteName(e.Pitch))
				continue
			}
			log.Debug("note octave-folded", "from", theory.PitchToNoteName(e.Pitch), "to", theory.PitchToNoteName(folded))
			e.Pitch = folded
			sum.NotesFolded++
		}

		// The DP must never see a pitch with no candidate position.
		if len(fb.PositionsFor(e.Pitch)) == 0 {
			sum.NotesDropped++
			log.Debug("note unplayable on this fretboard", "pitch", theory.PitchToNoteName(e.Pitch))
			continue
		}

		if cfg.PreQuantize {
			e.Start = cfg.QuantizeBeat(e.Start)
		}
		work = append(work, e)
	}

	sort.SliceStable(work, func(i, j int) bool {
		if work[i].Start != work[j].Start {
			return work[i].Start < work[j].Start
		}
		return work[i].Pitch < work[j].Pitch
	})

	return group(work, cfg)
}

// foldIntoRange shifts a pitch by octaves until it fits, mirroring the
// normalize pitch mode.
func foldIntoRange(pitch, lo, hi int) int {
	for pitch < lo {
		pitch += 12
	}
	for pitch > hi {
		pitch -= 12
	}
	return pitch
}

// group collects events whose quantised starts fall in the same grid
// cell into frames, applying the mono and dedupe reductions per cell.
func group(events []model.NoteEvent, cfg *Config) []model.Frame {
	var frames []model.Frame
	i := 0
	for i < len(events) {
		start := cfg.QuantizeBeat(events[i].Start)
		j := i
		for j < len(events) && cfg.QuantizeBeat(events[j].Start) == start {
			j++
		}
		cell := events[i:j]
		i = j

		if cfg.MonoLowestOnly && len(cell) > 1 {
			lowest := cell[0]
			for _, e := range cell[1:] {
				if e.Pitch < lowest.Pitch {
					lowest = e
				}
			}
			cell = []model.NoteEvent{lowest}
		}

		if cfg.Dedupe && len(cell) > 1 {
			seen := make(map[int]bool, len(cell))
			kept := cell[:0:0]
			for _, e := range cell {
				if seen[e.Pitch] {
					continue
				}
				seen[e.Pitch] = true
				kept = append(kept, e)
			}
			cell = kept
		}

		frame := model.Frame{Start: start, Events: append([]model.NoteEvent(nil), cell...)}
		frames = append(frames, frame)
	}
	return frames
}

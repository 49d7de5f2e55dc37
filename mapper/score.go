package mapper

import (
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/util"
)

// transitionCost scores moving the hand from the previous frame's
// positions to the candidate ones. An empty prev costs nothing: the
// first frame, and any frame following a rest, starts the hand fresh.
// The second return is false when the optional neighbour span gate
// rejects the pair.
func transitionCost(cfg *Config, prev, cur []model.ChosenPosition) (float64, bool) {
	if len(prev) == 0 {
		return 0, true
	}

	if cfg.CountFretSpanAcrossNeighbors {
		if neighborSpan(prev, cur) > cfg.UnplayableFretSpan {
			return 0, false
		}
	}

	cost := cfg.MovementPenalty * util.Abs(centroid(prev, cfg.IgnoreOpen)-centroid(cur, cfg.IgnoreOpen))

	prevStrings := 0
	for _, p := range prev {
		prevStrings |= 1 << p.String
	}
	switched := 0
	for _, p := range cur {
		if prevStrings&(1<<p.String) == 0 {
			switched++
		}
	}
	cost += cfg.StringSwitchPenalty * float64(switched)

	// A string held in the previous frame and not re-struck now keeps
	// ringing; reward leaving it alone.
	if cfg.LetRingBonus != 0 {
		curStrings := 0
		for _, p := range cur {
			curStrings |= 1 << p.String
		}
		if prevStrings&^curStrings != 0 {
			cost -= cfg.LetRingBonus
		}
	}

	return util.Clamp0(cost), true
}

// centroid is the mean fret of the fretted positions; open strings are
// skipped when ignoreOpen is set. All-open frames sit at the nut.
func centroid(positions []model.ChosenPosition, ignoreOpen bool) float64 {
	sum, n := 0.0, 0
	for _, p := range positions {
		if ignoreOpen && p.Fret == 0 {
			continue
		}
		sum += float64(p.Fret)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// neighborSpan treats the fretted frets of both frames as one shape;
// open strings never count toward it.
func neighborSpan(prev, cur []model.ChosenPosition) int {
	first := true
	var lo, hi int
	scan := func(ps []model.ChosenPosition) {
		for _, p := range ps {
			if p.Fret == 0 {
				continue
			}
			if first {
				lo, hi = p.Fret, p.Fret
				first = false
				continue
			}
			if p.Fret < lo {
				lo = p.Fret
			}
			if p.Fret > hi {
				hi = p.Fret
			}
		}
	}
	scan(prev)
	scan(cur)
	if first {
		return 0
	}
	return hi - lo
}

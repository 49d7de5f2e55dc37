package mapper

import (
	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/util"
)

// shapeCost scores a set of positions played together. The second
// return is false when the shape is infeasible: two notes on one
// string, or a fretted span wider than the playable hand span.
func shapeCost(fb *fretboard.Fretboard, cfg *Config, positions []model.ChosenPosition) (float64, bool) {
	used := 0
	for _, p := range positions {
		bit := 1 << p.String
		if used&bit != 0 {
			return 0, false
		}
		used |= bit
	}

	span, maxFretted := spanOf(positions, cfg.IgnoreOpen)
	if span > cfg.UnplayableFretSpan {
		return 0, false
	}

	cost := cfg.FretSpanPenalty * float64(span)
	cost += cfg.HighFretPenalty * float64(maxFretted)

	for _, p := range positions {
		if p.Fret > 0 && fb.IsLowString(p.String) {
			cost += cfg.LowStringHighFretMultiplier * float64(p.Fret)
		}
	}

	if barre(positions) {
		cost += cfg.BarrePenalty - cfg.BarreBonus
	}

	if cfg.PreferOpen {
		for _, p := range positions {
			if p.Fret > 0 && fb.HasOpen(p.Event.Pitch) {
				cost += cfg.FrettedOpenPenalty
			}
		}
	}

	if inSweetSpot(positions, cfg) {
		cost -= cfg.SweetSpotBonus
	}

	return util.Clamp0(cost), true
}

// spanOf computes the fret span and the highest fretted fret.
// Open strings are excluded from the span when ignoreOpen is set.
func spanOf(positions []model.ChosenPosition, ignoreOpen bool) (span, maxFretted int) {
	first := true
	var lo, hi int
	for _, p := range positions {
		if p.Fret > maxFretted {
			maxFretted = p.Fret
		}
		if ignoreOpen && p.Fret == 0 {
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
	if first {
		return 0, maxFretted
	}
	return hi - lo, maxFretted
}

// barre: at least two fretted positions, all on the same fret.
func barre(positions []model.ChosenPosition) bool {
	fret := -1
	count := 0
	for _, p := range positions {
		if p.Fret == 0 {
			continue
		}
		if fret == -1 {
			fret = p.Fret
		} else if p.Fret != fret {
			return false
		}
		count++
	}
	return count >= 2
}

func inSweetSpot(positions []model.ChosenPosition, cfg *Config) bool {
	if len(positions) == 0 {
		return false
	}
	for _, p := range positions {
		if p.Fret < cfg.SweetSpotLow || p.Fret > cfg.SweetSpotHigh {
			return false
		}
	}
	return true
}

package mapper

import (
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/util"
)

// InferArticulations labels transitions between consecutive monophonic
// frames as hammer-ons, pull-offs, slides or taps. It reads the chosen
// geometry and never alters it: dropping this pass changes labels only.
func InferArticulations(frames []model.ChosenFrame, cfg *Config) []model.Articulation {
	arts := make([]model.Articulation, len(frames))

	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1], frames[i]
		if !prev.Mono() || !cur.Mono() {
			continue
		}
		pp, cp := prev.Positions[0], cur.Positions[0]
		if pp.String != cp.String {
			continue
		}
		gap := cur.Frame.Start - prev.Frame.End()
		if gap > cfg.LegatoTimeThreshold {
			continue
		}
		diff := cp.Fret - pp.Fret
		switch {
		case diff == 0:
			// re-articulation, not legato
		case diff > 2:
			arts[i] = model.ArtSlideUp
		case diff < -2:
			arts[i] = model.ArtSlideDown
		case diff > 0:
			arts[i] = model.ArtHammerOn
		default:
			arts[i] = model.ArtPullOff
		}
	}

	upgradeTapRuns(frames, arts, cfg)
	return arts
}

// upgradeTapRuns finds maximal runs of legato-joined same-string notes
// and, when the run is long enough and stretches past the playable
// hand span, relabels its interior transitions as taps.
func upgradeTapRuns(frames []model.ChosenFrame, arts []model.Articulation, cfg *Config) {
	isLegato := func(a model.Articulation) bool {
		return a == model.ArtHammerOn || a == model.ArtPullOff ||
			a == model.ArtSlideUp || a == model.ArtSlideDown
	}

	i := 1
	for i < len(frames) {
		if !isLegato(arts[i]) {
			i++
			continue
		}
		// run of transitions [i..j) all legato on one string
		j := i
		for j < len(frames) && isLegato(arts[j]) {
			j++
		}

		runNotes := j - i + 1
		if runNotes >= cfg.TappingRunThreshold {
			// a run needs tapping when some legato target lies beyond
			// hand reach of the note before it
			maxJump := 0
			for k := i; k < j; k++ {
				jump := util.Abs(frames[k].Positions[0].Fret - frames[k-1].Positions[0].Fret)
				maxJump = util.Max(maxJump, jump)
			}
			if maxJump > cfg.UnplayableFretSpan {
				for k := i + 1; k < j; k++ {
					arts[k] = model.ArtTap
				}
			}
		}
		i = j
	}
}

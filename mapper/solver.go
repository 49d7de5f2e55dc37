package mapper

import (
	"log/slog"
	"math"
	"sort"

	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/model"
)

// beamWidth caps the candidate set per frame. Hand geometry keeps real
// chords far below this; the cap only guards pathological inputs such
// as dense cluster chords on wide grids.
const beamWidth = 64

const costEps = 1e-9

// Result is everything one mapping run produces. Frames are final once
// returned; articulations live on a side channel indexed by frame.
type Result struct {
	Frames        []model.ChosenFrame
	Articulations []model.Articulation // label of the transition into frame i
	Summary       RunSummary
}

// Map assigns every event a playable position, minimising the summed
// shape and transition costs across the whole piece, then labels the
// transitions. Same events + same config yields an identical result.
func Map(events []model.NoteEvent, fb *fretboard.Fretboard, cfg *Config, log *slog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	res := &Result{}
	frames := Normalize(events, fb, cfg, log, &res.Summary)
	res.Frames = solve(frames, fb, cfg, log, &res.Summary)

	if cfg.NoArticulations {
		res.Articulations = make([]model.Articulation, len(res.Frames))
	} else {
		res.Articulations = InferArticulations(res.Frames, cfg)
	}

	log.Info("mapping complete", "summary", res.Summary.Line())
	return res, nil
}

type candidate struct {
	positions []model.ChosenPosition
	rest      bool
	shape     float64
	sig       model.ShapeSignature
	cum       float64
	back      int
}

func solve(frames []model.Frame, fb *fretboard.Fretboard, cfg *Config, log *slog.Logger, sum *RunSummary) []model.ChosenFrame {
	if len(frames) == 0 {
		return nil
	}

	all := make([][]candidate, len(frames))
	for i, fr := range frames {
		cands := enumerate(fb, cfg, fr)
		if len(cands) == 0 {
			log.Info("chord unplayable, emitting rest", "beat", fr.Start, "notes", len(fr.Events))
			sum.RestFrames++
			cands = []candidate{{rest: true}}
		}

		if i == 0 {
			for k := range cands {
				cands[k].cum = cands[k].shape
				cands[k].back = -1
			}
			all[i] = cands
			continue
		}

		prev := all[i-1]
		reachable := false
		for k := range cands {
			best := math.Inf(1)
			bestJ := -1
			for j := range prev {
				var tc float64
				ok := true
				if !cands[k].rest {
					tc, ok = transitionCost(cfg, prev[j].positions, cands[k].positions)
				}
				if !ok {
					continue
				}
				if total := prev[j].cum + tc; total < best-costEps {
					best = total
					bestJ = j
				}
			}
			cands[k].back = bestJ
			if bestJ == -1 {
				cands[k].cum = math.Inf(1)
				continue
			}
			cands[k].cum = cands[k].shape + best
			reachable = true
		}

		// The neighbour gate can reject every pairing; the frame then
		// falls back to a rest so the walk continues.
		if !reachable {
			log.Info("no reachable fingering, emitting rest", "beat", fr.Start)
			sum.RestFrames++
			rest := candidate{rest: true}
			rest.back, rest.cum = argminCum(prev)
			cands = []candidate{rest}
		}
		all[i] = cands
	}

	// Pick the cheapest final candidate; ties break deterministically
	// toward lower max fret, then the lexicographically smaller string
	// set.
	last := all[len(frames)-1]
	pick := 0
	for k := 1; k < len(last); k++ {
		if better(&last[k], &last[pick]) {
			pick = k
		}
	}

	chosen := make([]model.ChosenFrame, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		c := all[i][pick]
		chosen[i] = model.ChosenFrame{
			Frame:     frames[i],
			Positions: c.positions,
			Rest:      c.rest,
			Shape:     c.sig,
		}
		if !c.rest {
			sum.FramesMapped++
		}
		pick = c.back
	}
	return chosen
}

func argminCum(cands []candidate) (int, float64) {
	best := 0
	for j := 1; j < len(cands); j++ {
		if cands[j].cum < cands[best].cum-costEps {
			best = j
		}
	}
	return best, cands[best].cum
}

func better(a, b *candidate) bool {
	if a.cum < b.cum-costEps {
		return true
	}
	if a.cum > b.cum+costEps {
		return false
	}
	if a.sig.MaxFret != b.sig.MaxFret {
		return a.sig.MaxFret < b.sig.MaxFret
	}
	return lessStrings(a.sig.Strings, b.sig.Strings)
}

func lessStrings(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// enumerate builds the feasible fingerings of one frame: the Cartesian
// product of each event's positions, pruned on string conflicts as it
// is built, gated by the oracle, and beam-capped on shape cost. With a
// single-string fretboard every product has at most one element and
// the DP degenerates to a linear walk.
func enumerate(fb *fretboard.Fretboard, cfg *Config, fr model.Frame) []candidate {
	posLists := make([][]model.Position, len(fr.Events))
	for i, e := range fr.Events {
		posLists[i] = fb.PositionsFor(e.Pitch)
		if len(posLists[i]) == 0 {
			return nil
		}
	}

	var out []candidate
	cur := make([]model.ChosenPosition, 0, len(fr.Events))
	var rec func(i, used int)
	rec = func(i, used int) {
		if i == len(posLists) {
			ps := append([]model.ChosenPosition(nil), cur...)
			cost, ok := shapeCost(fb, cfg, ps)
			if !ok {
				return
			}
			out = append(out, candidate{positions: ps, shape: cost, sig: model.Signature(ps)})
			return
		}
		for _, p := range posLists[i] {
			bit := 1 << p.String
			if used&bit != 0 {
				continue
			}
			cur = append(cur, model.ChosenPosition{Position: p, Event: fr.Events[i]})
			rec(i+1, used|bit)
			cur = cur[:len(cur)-1]
		}
	}
	rec(0, 0)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].shape != out[j].shape {
			return out[i].shape < out[j].shape
		}
		if out[i].sig.MaxFret != out[j].sig.MaxFret {
			return out[i].sig.MaxFret < out[j].sig.MaxFret
		}
		return lessStrings(out[i].sig.Strings, out[j].sig.Strings)
	})
	if len(out) > beamWidth {
		out = out[:beamWidth]
	}
	return out
}

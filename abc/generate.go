package abc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofrets/gofrets/model"
)

var abcNoteNames = [12]string{"C", "^C", "D", "^D", "E", "F", "^F", "G", "^G", "A", "^A", "B"}

// standardDurations are the quantisation targets for note and rest
// lengths, in beats.
var standardDurations = []float64{0.125, 0.25, 0.375, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 4.0}

// Generate renders a Song as ABC notation with chords, rests and bar
// lines, wrapping the body at 70 characters.
func Generate(song *model.Song) string {
	const defaultNoteLength = "1/16"
	defaultLenBeats := durationMultiplier(defaultNoteLength) * 4.0

	lines := []string{
		"X:1",
		fmt.Sprintf("T:%s", song.Title),
		fmt.Sprintf("M:%s", song.Time),
		fmt.Sprintf("L:%s", defaultNoteLength),
		fmt.Sprintf("Q:1/4=%d", int(song.Tempo)),
		"K:C",
	}

	beatsPerMeasure := song.Time.BeatsPerMeasure()

	for _, track := range song.Tracks {
		if len(track.Events) == 0 {
			continue
		}
		events := append([]model.NoteEvent(nil), track.Events...)
		sort.SliceStable(events, func(i, j int) bool { return events[i].Start < events[j].Start })

		var body strings.Builder
		currentBeat := 0.0
		beatsInMeasure := 0.0

		bar := func() {
			if beatsInMeasure >= beatsPerMeasure-0.01 {
				body.WriteString("| ")
				for beatsInMeasure >= beatsPerMeasure {
					beatsInMeasure -= beatsPerMeasure
				}
			}
		}

		i := 0
		for i < len(events) {
			j := i
			for j < len(events) && events[j].Start == events[i].Start {
				j++
			}
			group := events[i:j]

			if rest := group[0].Start - currentBeat; rest > 0.1 {
				q := quantizeDuration(rest)
				body.WriteString("z" + durationSuffix(q, defaultLenBeats) + " ")
				beatsInMeasure += q
				bar()
			}

			longest := group[0].Duration
			for _, e := range group[1:] {
				if e.Duration > longest {
					longest = e.Duration
				}
			}
			q := quantizeDuration(longest)
			suffix := durationSuffix(q, defaultLenBeats)

			if len(group) == 1 {
				body.WriteString(pitchToABC(group[0].Pitch) + suffix + " ")
			} else {
				var chord strings.Builder
				for _, e := range group {
					chord.WriteString(pitchToABC(e.Pitch))
				}
				body.WriteString("[" + chord.String() + "]" + suffix + " ")
			}
			beatsInMeasure += q
			currentBeat = group[0].Start + longest
			bar()
			i = j
		}

		lines = append(lines, wrap(body.String(), 70)...)
	}

	return strings.Join(lines, "\n")
}

func pitchToABC(pitch int) string {
	octave := pitch/12 - 1
	name := abcNoteNames[pitch%12]
	switch {
	case octave < 4:
		return name + strings.Repeat(",", 4-octave)
	case octave == 4:
		return name
	case octave == 5:
		return strings.ToLower(name)
	default:
		return strings.ToLower(name) + strings.Repeat("'", octave-5)
	}
}

func quantizeDuration(beats float64) float64 {
	if beats <= 0 {
		return standardDurations[0]
	}
	best := standardDurations[0]
	for _, d := range standardDurations[1:] {
		if abs(d-beats) < abs(best-beats) {
			best = d
		}
	}
	return best
}

// durationSuffix renders a duration as a multiplier of the default
// note length; an empty string when the multiplier is one.
func durationSuffix(beats, defaultLen float64) string {
	if defaultLen == 0 {
		return ""
	}
	mult := beats / defaultLen
	if abs(mult-1) < 0.01 {
		return ""
	}
	num, den := asFraction(mult)
	if den == 1 {
		return fmt.Sprintf("%d", num)
	}
	return fmt.Sprintf("%d/%d", num, den)
}

// asFraction reduces a multiplier to a small num/den pair.
func asFraction(v float64) (int, int) {
	for _, den := range []int{1, 2, 4, 8, 16, 32} {
		num := v * float64(den)
		if abs(num-float64(int(num+0.5))) < 0.001 {
			n, d := int(num+0.5), den
			for d > 1 && n%2 == 0 {
				n /= 2
				d /= 2
			}
			return n, d
		}
	}
	return int(v + 0.5), 1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	var lines []string
	current := ""
	for _, w := range words {
		if current != "" && len(current)+len(w)+1 > width {
			lines = append(lines, current)
			current = w
			continue
		}
		if current != "" {
			current += " "
		}
		current += w
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

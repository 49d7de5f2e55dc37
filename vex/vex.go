package vex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/tuning"
	"github.com/gofrets/gofrets/util"
)

// durations maps VexTab duration tokens to beats.
var durations = map[string]float64{
	":w": 4, ":hd": 3, ":h": 2, ":qd": 1.5, ":q": 1,
	":8d": 0.75, ":8": 0.5, ":16": 0.25, ":32": 0.125,
}

var (
	tempoRe = regexp.MustCompile(`tempo=(\d+)`)
	timeRe  = regexp.MustCompile(`time=(\d+)/(\d+)`)
	notesRe = regexp.MustCompile(`notes\s+(.*)`)
	atomRe  = regexp.MustCompile(`(\d+)/(\d+)`)
	// a single note or a legato run: frets joined by h/p, then /string
	runRe    = regexp.MustCompile(`^(\d+(?:[hp]\d+)*)/(\d+)$`)
	legatoRe = regexp.MustCompile(`[hp]`)
)

// Parse reads VexTab notation. Positions are fret/string pairs with
// 1-based strings, high string first; legato runs inside one token
// subdivide the current duration.
func Parse(text string) (*model.Song, error) {
	song := model.NewSong()
	track := model.Track{}

	tun, err := tuning.ByName("STANDARD")
	if err != nil {
		return nil, err
	}

	if m := tempoRe.FindStringSubmatch(text); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			song.Tempo = f
		}
	}
	if m := timeRe.FindStringSubmatch(text); m != nil {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		if num > 0 && den > 0 {
			song.Time = model.TimeSignature{Numerator: num, Denominator: den}
		}
	}

	var tokens []string
	for _, m := range notesRe.FindAllStringSubmatch(text, -1) {
		tokens = append(tokens, strings.Fields(m[1])...)
	}

	currentTime := 0.0
	currentDuration := 1.0 // VexTab defaults to a quarter

	for _, token := range tokens {
		if strings.HasPrefix(token, ":") {
			if d, ok := durations[token]; ok {
				currentDuration = d
			}
			continue
		}

		if strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")") {
			for _, a := range atomRe.FindAllStringSubmatch(token, -1) {
				pitch, ok := posToPitch(tun, a[2], a[1])
				if !ok {
					continue
				}
				track.Events = append(track.Events, model.NoteEvent{
					Pitch: pitch, Start: currentTime, Duration: currentDuration, Velocity: 90,
				})
			}
			currentTime += currentDuration
			continue
		}

		m := runRe.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		// a run of legato-joined frets shares one duration token
		frets := legatoRe.Split(m[1], -1)
		per := currentDuration / float64(len(frets))
		for _, fret := range frets {
			pitch, ok := posToPitch(tun, m[2], fret)
			if !ok {
				continue
			}
			track.Events = append(track.Events, model.NoteEvent{
				Pitch: pitch, Start: currentTime, Duration: per, Velocity: 90,
			})
			currentTime += per
		}
	}

	if len(track.Events) == 0 {
		return nil, &model.InputError{Msg: "no notes found in vextab input"}
	}
	song.Tracks = append(song.Tracks, track)
	return song, nil
}

func posToPitch(tun tuning.Tuning, stringStr, fretStr string) (int, bool) {
	s, err1 := strconv.Atoi(stringStr)
	f, err2 := strconv.Atoi(fretStr)
	if err1 != nil || err2 != nil || s < 1 || s > tun.NumStrings() || f < 0 {
		return 0, false
	}
	return tun.OpenPitch(s-1) + f, true
}

// Generate renders chosen frames as VexTab tabstaves, two measures per
// stave.
func Generate(frames []model.ChosenFrame, meta GenerateMeta) string {
	const measuresPerStave = 2

	parts := []string{
		fmt.Sprintf("options tempo=%d", int(meta.Tempo)),
		fmt.Sprintf("text Title: %s", meta.Title),
		"",
	}

	bpm := meta.Time.BeatsPerMeasure()

	type entry struct {
		stave int
		text  string
	}
	var entries []entry
	for _, f := range frames {
		if f.Rest || len(f.Positions) == 0 {
			continue
		}
		stave := int(f.Frame.Start/bpm) / measuresPerStave
		dur := durationToken(f.Frame.MinDuration())

		var note string
		if len(f.Positions) == 1 {
			p := f.Positions[0]
			note = fmt.Sprintf("%d/%d", p.Fret, p.String+1)
		} else {
			var ps []string
			for _, p := range f.Positions {
				ps = append(ps, fmt.Sprintf("%d/%d", p.Fret, p.String+1))
			}
			note = "(" + strings.Join(ps, ".") + ")"
		}
		entries = append(entries, entry{stave: stave, text: dur + " " + note})
	}

	i := 0
	for i < len(entries) {
		j := i
		for j < len(entries) && entries[j].stave == entries[i].stave {
			j++
		}
		var notes []string
		for _, e := range entries[i:j] {
			notes = append(notes, e.text)
		}
		parts = append(parts,
			fmt.Sprintf("tabstave notation=true time=%s", meta.Time),
			"notes "+strings.Join(notes, " "),
			"")
		i = j
	}

	return strings.Join(parts, "\n")
}

// GenerateMeta carries the header fields for VexTab output.
type GenerateMeta struct {
	Title string
	Tempo float64
	Time  model.TimeSignature
}

func durationToken(beats float64) string {
	if beats <= 0 {
		return ":q"
	}
	best := ":q"
	bestDiff := -1.0
	for _, k := range util.SortedKeys(durations) {
		diff := durations[k] - beats
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = k
			bestDiff = diff
		}
	}
	return best
}

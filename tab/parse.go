package tab

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/tuning"
)

// ParseOptions tune the tab -> events direction.
type ParseOptions struct {
	Staccato bool    // every note gets an eighth instead of sustaining
	Grid     float64 // beat snap for recovered positions
}

var (
	headerRe = regexp.MustCompile(`^//\s*(Title|Tempo|Time|Tuning):\s*(.*?)\s*$`)
	rowRe    = regexp.MustCompile(`^([A-Ga-g][#b]?)\s*\|(.*)$`)
	timeRe   = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
)

const artChars = "hpt/\\"

type rawNote struct {
	col  int // absolute column across all systems
	str  int
	fret int
}

// Parse reconstructs events from ASCII tab text. Rhythm is inferred
// from column spacing: the logarithmic inverse when the text carries
// this generator's header block, a linear mapping otherwise. Malformed
// input is rejected whole with a single located diagnostic.
func Parse(text string, opts ParseOptions) (*model.Song, error) {
	if opts.Grid <= 0 {
		opts.Grid = 0.125
	}
	song := model.NewSong()

	headers := map[string]string{}
	type rowLine struct {
		name  string
		cells string
		line  int
	}
	var systems [][]rowLine
	var current []rowLine

	flush := func() {
		if len(current) > 0 {
			systems = append(systems, current)
			current = nil
		}
	}

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := headerRe.FindStringSubmatch(trimmed); m != nil {
			headers[m[1]] = m[2]
			flush()
			continue
		}
		if m := rowRe.FindStringSubmatch(trimmed); m != nil {
			cells := m[2]
			// drop the trailing bar: cells between bars carry the music
			cells = strings.TrimSuffix(cells, "|")
			current = append(current, rowLine{name: m[1], cells: cells, line: i + 1})
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			flush()
			continue
		}
		return nil, &model.InputError{Line: i + 1, Msg: "unrecognised line in tab body"}
	}
	flush()

	if len(systems) == 0 {
		return nil, &model.InputError{Msg: "no tab rows found"}
	}

	applyHeaders(song, headers)
	tun, err := headerTuning(headers, len(systems[0]))
	if err != nil {
		return nil, err
	}
	if tun.NumStrings() != len(systems[0]) {
		return nil, &model.InputError{
			Line: systems[0][0].line,
			Msg:  "tuning string count does not match tab rows",
		}
	}

	// validate system shapes and splice rows into one long line per
	// string, keeping a measure bar between systems
	full := make([]string, len(systems[0]))
	for _, sys := range systems {
		if len(sys) != len(full) {
			return nil, &model.InputError{Line: sys[0].line, Msg: "system has a different number of strings"}
		}
		for s, row := range sys {
			if len(row.cells) != len(sys[0].cells) {
				return nil, &model.InputError{Line: row.line, Col: len(row.cells) + 1, Msg: "unequal row lengths within system"}
			}
			if bad, col := invalidCell(row.cells); bad {
				return nil, &model.InputError{Line: row.line, Col: col + 1, Msg: "stray character in tab row"}
			}
			full[s] += row.cells
			full[s] += "|"
		}
	}

	notes, err := scanNotes(full)
	if err != nil {
		return nil, err
	}

	bpm := song.Time.BeatsPerMeasure()
	logSpacing := headers["Tuning"] != "" // our generator always writes it
	events := timeNotes(notes, full, tun, bpm, opts, logSpacing)

	song.Tracks = append(song.Tracks, model.Track{Events: events})
	return song, nil
}

func applyHeaders(song *model.Song, headers map[string]string) {
	if v, ok := headers["Title"]; ok && v != "" {
		song.Title = v
	}
	if v, ok := headers["Tempo"]; ok {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(v), "BPM"))
		if len(fields) > 0 {
			if f, err := strconv.ParseFloat(fields[0], 64); err == nil && f > 0 {
				song.Tempo = f
			}
		}
	}
	if v, ok := headers["Time"]; ok {
		if m := timeRe.FindStringSubmatch(strings.TrimSpace(v)); m != nil {
			num, _ := strconv.Atoi(m[1])
			den, _ := strconv.Atoi(m[2])
			if num > 0 && den > 0 {
				song.Time = model.TimeSignature{Numerator: num, Denominator: den}
			}
		}
	}
}

func headerTuning(headers map[string]string, numRows int) (tuning.Tuning, error) {
	if v := headers["Tuning"]; v != "" {
		t, err := tuning.Parse(v)
		if err != nil {
			return tuning.Tuning{}, &model.InputError{Msg: err.Error()}
		}
		return t, nil
	}
	switch numRows {
	case 4:
		return tuning.ByName("BASS_STANDARD")
	default:
		return tuning.ByName("STANDARD")
	}
}

func invalidCell(cells string) (bool, int) {
	for i := 0; i < len(cells); i++ {
		c := cells[i]
		switch {
		case c >= '0' && c <= '9', c == '-', c == '|':
		case strings.IndexByte(artChars, c) >= 0:
		default:
			return true, i
		}
	}
	return false, 0
}

// scanNotes walks every string row for digit runs. A multi-digit run
// is one fret number anchored at its first column. Articulation
// letters in the preceding cell belong to the note but carry no pitch
// or timing; they are validated here and re-inferred from geometry on
// the way back out, so positions never depend on them.
func scanNotes(full []string) ([]rawNote, error) {
	var notes []rawNote
	for s, row := range full {
		i := 0
		for i < len(row) {
			c := row[i]
			if c < '0' || c > '9' {
				i++
				continue
			}
			j := i
			for j < len(row) && row[j] >= '0' && row[j] <= '9' {
				j++
			}
			fret, err := strconv.Atoi(row[i:j])
			if err != nil {
				return nil, &model.InputError{Msg: "unparseable fret number"}
			}
			notes = append(notes, rawNote{col: i, str: s, fret: fret})
			i = j
		}
	}
	return notes, nil
}

// timeNotes converts columns to beats. Measures come from bar columns;
// inside a measure the generator's logarithmic curve (or the linear
// fallback) recovers the beat offset, snapped to the grid.
func timeNotes(notes []rawNote, full []string, tun tuning.Tuning, bpm float64, opts ParseOptions, logSpacing bool) []model.NoteEvent {
	// measure boundaries: columns where every row has a bar
	width := len(full[0])
	barCols := []int{-1}
	for c := 0; c < width; c++ {
		all := true
		for _, row := range full {
			if c >= len(row) || row[c] != '|' {
				all = false
				break
			}
		}
		if all {
			barCols = append(barCols, c)
		}
	}

	measureOf := func(col int) (idx, start, w int) {
		for i := len(barCols) - 1; i >= 0; i-- {
			if col > barCols[i] {
				end := width
				if i+1 < len(barCols) {
					end = barCols[i+1]
				}
				return i, barCols[i] + 1, end - barCols[i] - 1
			}
		}
		return 0, 0, width
	}

	snap := func(b float64) float64 {
		n := int(b/opts.Grid + 0.5)
		return float64(n) * opts.Grid
	}

	type timed struct {
		ev  model.NoteEvent
		str int
	}
	var placed []timed
	for _, n := range notes {
		mIdx, mStart, mWidth := measureOf(n.col)
		rel := n.col - mStart
		var beat float64
		if logSpacing {
			beat = BeatFor(rel, bpm, mWidth)
		} else {
			beat = float64(rel) / float64(mWidth) * bpm
		}
		start := float64(mIdx)*bpm + snap(beat)
		placed = append(placed, timed{
			ev: model.NoteEvent{
				Pitch:    tun.OpenPitch(n.str) + n.fret,
				Start:    start,
				Duration: 0.5,
				Velocity: 90,
			},
			str: n.str,
		})
	}

	// sustain: stretch each note to the next strike on its string; the
	// last note on a string keeps the default eighth
	if !opts.Staccato {
		for i := range placed {
			next := -1.0
			for j := range placed {
				if placed[j].str != placed[i].str {
					continue
				}
				if placed[j].ev.Start > placed[i].ev.Start &&
					(next < 0 || placed[j].ev.Start < next) {
					next = placed[j].ev.Start
				}
			}
			if next > placed[i].ev.Start {
				placed[i].ev.Duration = next - placed[i].ev.Start
			}
		}
	}

	events := make([]model.NoteEvent, 0, len(placed))
	for _, p := range placed {
		events = append(events, p.ev)
	}
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j-1].Start > events[j].Start; j-- {
			events[j-1], events[j] = events[j], events[j-1]
		}
	}
	return events
}

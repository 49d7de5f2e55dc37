package tab

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/theory"
	"github.com/gofrets/gofrets/tuning"
)

// alpha shapes the logarithmic column schedule: early beats get dense
// columns, trailing sustain is compressed. The parser inverts the same
// curve.
const alpha = 1.0

// Meta carries the header fields and layout width for one rendering.
type Meta struct {
	Title string
	Tempo float64
	Time  model.TimeSignature
	Width int // columns per measure
}

// DefaultWidth is the measure width when the caller does not set one.
const DefaultWidth = 40

// ColumnFor maps a beat offset inside a measure to a column under the
// logarithmic schedule.
func ColumnFor(beat, beatsPerMeasure float64, width int) int {
	if beat <= 0 {
		return 0
	}
	if beat > beatsPerMeasure {
		beat = beatsPerMeasure
	}
	w := float64(width)
	col := w * math.Log(1+alpha*beat) / math.Log(1+alpha*beatsPerMeasure)
	return int(col + 0.5)
}

// BeatFor inverts ColumnFor: column index back to a beat offset.
func BeatFor(col int, beatsPerMeasure float64, width int) float64 {
	if col <= 0 {
		return 0
	}
	frac := float64(col) / float64(width)
	return (math.Pow(1+alpha*beatsPerMeasure, frac) - 1) / alpha
}

// Generate renders chosen frames as ASCII tab. One measure per system,
// blank line between systems; articulation symbols occupy the cell
// before their target digit; rest frames leave their timing gap empty.
func Generate(t tuning.Tuning, frames []model.ChosenFrame, arts []model.Articulation, meta Meta) string {
	if meta.Width <= 0 {
		meta.Width = DefaultWidth
	}
	bpm := meta.Time.BeatsPerMeasure()
	names := t.RowNames()
	nameW := 0
	for _, n := range names {
		if len(n) > nameW {
			nameW = len(n)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Title: %s\n", meta.Title)
	fmt.Fprintf(&b, "// Tempo: %g BPM\n", meta.Tempo)
	fmt.Fprintf(&b, "// Time: %s\n", meta.Time)
	// a capo or a custom tuning is spelled out as the sounding open
	// notes, so parsing the tab back recovers the right pitches
	tuningField := t.Name
	if tuningField == "CUSTOM" || tuningField == "" || t.Capo != 0 {
		names := make([]string, t.NumStrings())
		for s := range names {
			names[s] = theory.PitchToNoteName(t.OpenPitch(s))
		}
		tuningField = strings.Join(names, " ")
	}
	fmt.Fprintf(&b, "// Tuning: %s\n", tuningField)
	b.WriteString("\n")

	measures := 1
	for _, f := range frames {
		m := int(f.Frame.Start / bpm)
		if m+1 > measures {
			measures = m + 1
		}
	}

	for m := 0; m < measures; m++ {
		rows := renderMeasure(t, frames, arts, m, bpm, meta.Width)
		for s, row := range rows {
			name := names[s]
			b.WriteString(name)
			b.WriteString(strings.Repeat(" ", nameW-len(name)))
			b.WriteString("|")
			b.WriteString(row)
			b.WriteString("|\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderMeasure lays the frames of one measure onto per-string rows.
// Multi-digit frets shift everything after them right; simultaneous
// notes share a column.
func renderMeasure(t tuning.Tuning, frames []model.ChosenFrame, arts []model.Articulation, m int, bpm float64, width int) []string {
	rows := make([][]byte, t.NumStrings())
	for s := range rows {
		rows[s] = []byte(strings.Repeat("-", width))
	}

	shift := 0 // accumulated multi-digit displacement
	lastCol := -1
	for i, f := range frames {
		if f.Rest || int(f.Frame.Start/bpm) != m {
			continue
		}
		beat := f.Frame.Start - float64(m)*bpm
		col := ColumnFor(beat, bpm, width) + shift

		art := ""
		if arts != nil && arts[i] != model.ArtNone && f.Mono() {
			art = arts[i].Symbol()
		}

		// the articulation letter sits in the rest cell just before
		// its digit; bump right when that cell is taken
		if col <= lastCol {
			col = lastCol + 1
		}
		if art != "" && col-1 <= lastCol {
			col = lastCol + 2
		}

		maxDigits := 1
		for _, p := range f.Positions {
			text := strconv.Itoa(p.Fret)
			if len(text) > maxDigits {
				maxDigits = len(text)
			}
			rows[p.String] = write(rows[p.String], col, text)
			if art != "" {
				rows[p.String] = write(rows[p.String], col-1, art)
			}
		}

		lastCol = col + maxDigits - 1
		shift += maxDigits - 1
	}

	// pad rows to a common width when multi-digit frets pushed past it
	maxLen := width
	for _, r := range rows {
		if len(r) > maxLen {
			maxLen = len(r)
		}
	}
	res := make([]string, len(rows))
	for s, r := range rows {
		for len(r) < maxLen {
			r = append(r, '-')
		}
		res[s] = string(r)
	}
	return res
}

// write places text at col, growing the row with rests as needed.
func write(row []byte, col int, text string) []byte {
	for len(row) < col+len(text) {
		row = append(row, '-')
	}
	copy(row[col:], text)
	return row
}

package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrets/gofrets/abc"
	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/mapper"
	"github.com/gofrets/gofrets/midifmt"
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/tab"
	"github.com/gofrets/gofrets/tuning"
	"github.com/gofrets/gofrets/vex"
)

// Kind tags the supported input and output formats. The dispatch below
// replaces extension-string branching with one table per direction.
type Kind int

const (
	KindUnknown Kind = iota
	KindMIDI
	KindABC
	KindVexTab
	KindASCIITab
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindMIDI:
		return "midi"
	case KindABC:
		return "abc"
	case KindVexTab:
		return "vextab"
	case KindASCIITab:
		return "tab"
	case KindAudio:
		return "audio"
	}
	return "unknown"
}

var kindByExt = map[string]Kind{
	".mid":  KindMIDI,
	".midi": KindMIDI,
	".abc":  KindABC,
	".vex":  KindVexTab,
	".tab":  KindASCIITab,
	".txt":  KindASCIITab,
	".wav":  KindAudio,
	".mp3":  KindAudio,
	".flac": KindAudio,
	".ogg":  KindAudio,
}

// KindOf infers the format from the file extension.
func KindOf(path string) Kind {
	return kindByExt[strings.ToLower(filepath.Ext(path))]
}

// Options carries everything one conversion run needs. Built once at
// startup and passed by reference; never mutated during the run.
type Options struct {
	Mapper       *mapper.Config
	Tuning       tuning.Tuning
	MaxFret      int
	SingleString int

	Nudge        int // units of a quarter of a beat, shifts right
	Track        int // 1-based midi track selection, 0 = all
	Staccato     bool
	MaxLineWidth int
	Overwrite    bool
}

// OutputError marks a failure writing the result, so the command layer
// can exit with the I/O code rather than the parse code.
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string { return "writing output: " + e.Err.Error() }
func (e *OutputError) Unwrap() error { return e.Err }

type reader func(path string, opts *Options) (*model.Song, error)

// readers is the input dispatch table, one entry per Kind.
var readers = map[Kind]reader{
	KindMIDI: func(path string, opts *Options) (*model.Song, error) {
		return midifmt.ReadFile(path, opts.Track)
	},
	KindABC: textReader(func(data string, opts *Options) (*model.Song, error) {
		return abc.Parse(data)
	}),
	KindVexTab: textReader(func(data string, opts *Options) (*model.Song, error) {
		return vex.Parse(data)
	}),
	KindASCIITab: textReader(func(data string, opts *Options) (*model.Song, error) {
		return tab.Parse(data, tab.ParseOptions{
			Staccato: opts.Staccato,
			Grid:     opts.Mapper.QuantizationResolution,
		})
	}),
	KindAudio: func(path string, opts *Options) (*model.Song, error) {
		return nil, fmt.Errorf("audio input needs an external pitch pipeline; decode %s to midi first", filepath.Base(path))
	},
}

func textReader(parse func(data string, opts *Options) (*model.Song, error)) reader {
	return func(path string, opts *Options) (*model.Song, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		song, err := parse(string(data), opts)
		return located(song, err, path)
	}
}

// Read parses the input into a Song using the reader for its kind.
func Read(path string, opts *Options) (*model.Song, error) {
	r, ok := readers[KindOf(path)]
	if !ok {
		return nil, fmt.Errorf("cannot infer input format from %q", filepath.Ext(path))
	}
	return r(path, opts)
}

// located stamps the input path onto parse errors that lack one.
func located(song *model.Song, err error, path string) (*model.Song, error) {
	if ie, ok := err.(*model.InputError); ok && ie.Path == "" {
		ie.Path = path
	}
	return song, err
}

// Run executes one full conversion: read, nudge, map when the output
// format carries positions, write. Returns the run summary for the
// final diagnostic line.
func Run(inPath, outPath string, opts *Options, log *slog.Logger) (*mapper.RunSummary, error) {
	outKind := KindOf(outPath)
	if outKind == KindUnknown {
		return nil, fmt.Errorf("cannot infer output format from %q", filepath.Ext(outPath))
	}
	if outKind == KindAudio {
		return nil, fmt.Errorf("audio output is not supported")
	}
	if !opts.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("output %s exists; pass --yes to overwrite", outPath)
		}
	}

	song, err := Read(inPath, opts)
	if err != nil {
		return nil, err
	}
	if song.Title == "" || song.Title == "Untitled" {
		base := filepath.Base(inPath)
		song.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if opts.Nudge > 0 {
		offset := float64(opts.Nudge) * 0.25
		log.Info("nudging events", "beats", offset)
		for t := range song.Tracks {
			for i := range song.Tracks[t].Events {
				song.Tracks[t].Events[i].Start += offset
			}
		}
	}

	switch outKind {
	case KindMIDI:
		if err := midifmt.WriteFile(song, outPath); err != nil {
			return nil, &OutputError{Err: err}
		}
		return &mapper.RunSummary{}, nil

	case KindABC:
		if err := writeText(outPath, abc.Generate(song)); err != nil {
			return nil, err
		}
		return &mapper.RunSummary{}, nil
	}

	// tab and vextab carry positions: run the mapper
	fb, err := fretboard.New(opts.Tuning, opts.MaxFret, opts.SingleString)
	if err != nil {
		return nil, err
	}
	result, err := mapper.Map(song.AllEvents(), fb, opts.Mapper, log)
	if err != nil {
		return nil, err
	}

	var text string
	switch outKind {
	case KindASCIITab:
		text = tab.Generate(opts.Tuning, result.Frames, result.Articulations, tab.Meta{
			Title: song.Title,
			Tempo: song.Tempo,
			Time:  song.Time,
			Width: opts.MaxLineWidth,
		})
	case KindVexTab:
		text = vex.Generate(result.Frames, vex.GenerateMeta{
			Title: song.Title,
			Tempo: song.Tempo,
			Time:  song.Time,
		})
	}
	if err := writeText(outPath, text); err != nil {
		return nil, err
	}
	return &result.Summary, nil
}

func writeText(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &OutputError{Err: err}
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &OutputError{Err: err}
	}
	return nil
}

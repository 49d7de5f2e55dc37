package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/mapper"
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/tab"
	"github.com/gofrets/gofrets/tuning"
)

var (
	listenPort  int
	listenTempo float64
	listenWidth int
)

func init() {
	listenCmd.Flags().IntVar(&listenPort, "port", 0, "midi input port number")
	listenCmd.Flags().Float64Var(&listenTempo, "tempo", 120, "assumed tempo for beat conversion")
	listenCmd.Flags().IntVar(&listenWidth, "max-line-width", 40, "columns per measure of ASCII tab")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Transcribe a live midi input port, re-rendering as notes arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listen()
	},
}

func listen() error {
	defer midi.CloseDriver()

	in, err := midi.InPort(listenPort)
	if err != nil {
		return fmt.Errorf("no midi input on port %d: %w", listenPort, err)
	}
	logger.Info("listening", "port", in.String(), "tempo", listenTempo)

	tun, err := tuning.ByName("STANDARD")
	if err != nil {
		return err
	}
	fb, err := fretboard.New(tun, 24, 0)
	if err != nil {
		return err
	}
	cfg := mapper.Default()

	var (
		mu      sync.Mutex
		started = time.Now()
		down    = map[uint8]model.NoteEvent{}
		events  []model.NoteEvent
	)

	beatsAt := func(t time.Time) float64 {
		return t.Sub(started).Seconds() * listenTempo / 60
	}

	render := func() {
		mu.Lock()
		snapshot := append([]model.NoteEvent(nil), events...)
		mu.Unlock()
		if len(snapshot) == 0 {
			return
		}
		result, err := mapper.Map(snapshot, fb, cfg, logger)
		if err != nil {
			logger.Error("mapping failed", "err", err)
			return
		}
		text := tab.Generate(tun, result.Frames, result.Articulations, tab.Meta{
			Title: "live",
			Tempo: listenTempo,
			Time:  model.TimeSignature{Numerator: 4, Denominator: 4},
			Width: listenWidth,
		})
		fmt.Print("\n" + text)
	}

	// batch the redraws: a strummed chord arrives as a burst of events
	debounced := debounce.New(400 * time.Millisecond)

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			mu.Lock()
			down[key] = model.NoteEvent{
				Pitch:    int(key),
				Start:    beatsAt(time.Now()),
				Velocity: int(vel),
			}
			mu.Unlock()
		case msg.GetNoteEnd(&ch, &key):
			mu.Lock()
			if e, ok := down[key]; ok {
				delete(down, key)
				e.Duration = beatsAt(time.Now()) - e.Start
				if e.Duration <= 0 {
					e.Duration = 0.25
				}
				events = append(events, e)
			}
			mu.Unlock()
			debounced(render)
		}
	})
	if err != nil {
		return fmt.Errorf("midi listener: %w", err)
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	render()
	logger.Info("listen finished", "notes", len(events))
	return nil
}

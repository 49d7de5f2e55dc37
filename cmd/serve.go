package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/mapper"
	"github.com/gofrets/gofrets/midifmt"
	"github.com/gofrets/gofrets/model"
	"github.com/gofrets/gofrets/store"
	"github.com/gofrets/gofrets/tab"
	"github.com/gofrets/gofrets/tuning"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve transcription over HTTP: POST a midi body to /transcribe",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var archive *store.Archive

func serve() error {
	archive = store.FromEnv(logger)

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/transcribe", HandleTranscribe).Methods("POST")
	handler := cors.Default().Handler(router)

	logger.Info("serving", "addr", serveAddr, "archive", archive != nil)
	return http.ListenAndServe(serveAddr, handler)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

// HandleTranscribe maps a midi upload to tab. Query parameters:
// tuning, capo, max-fret, width, track.
func HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return
	}

	q := r.URL.Query()
	tuningName := q.Get("tuning")
	if tuningName == "" {
		tuningName = "STANDARD"
	}
	tun, err := tuning.Parse(tuningName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tun.Capo = queryInt(q.Get("capo"), 0)
	maxFret := queryInt(q.Get("max-fret"), 24)
	width := queryInt(q.Get("width"), tab.DefaultWidth)
	track := queryInt(q.Get("track"), 0)

	parsed, err := smf.ReadFrom(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unreadable midi: "+err.Error())
		return
	}
	song, err := midifmt.FromSMF(parsed, track, "upload")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	fb, err := fretboard.New(tun, maxFret, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := mapper.Map(song.AllEvents(), fb, mapper.Default(), logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.New().String()
	text := tab.Generate(tun, result.Frames, result.Articulations, tab.Meta{
		Title: id,
		Tempo: song.Tempo,
		Time:  song.Time,
		Width: width,
	})

	if archive != nil {
		archive.PutTab(id, text)
	}

	json.NewEncoder(w).Encode(model.TranscribeResponse{
		ID:      id,
		Tab:     text,
		Summary: result.Summary.Line(),
	})
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gofrets/gofrets/cmd"
	"github.com/gofrets/gofrets/midifmt"
	"github.com/gofrets/gofrets/model"
)

func sampleMidiBody(t *testing.T) io.Reader {
	t.Helper()
	song := model.NewSong()
	song.Tracks = []model.Track{{Events: []model.NoteEvent{
		{Pitch: 64, Start: 0, Duration: 0.5, Velocity: 90},
		{Pitch: 67, Start: 0.5, Duration: 0.5, Velocity: 90},
		{Pitch: 71, Start: 1.0, Duration: 0.5, Velocity: 90},
	}}}
	var buf bytes.Buffer
	assert.NoError(t, midifmt.WriteTo(song, &buf))
	return &buf
}

func TestTranscribeEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transcribe", sampleMidiBody(t))
	w := httptest.NewRecorder()
	cmd.HandleTranscribe(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var tr model.TranscribeResponse
	assert.NoError(json.Unmarshal(body, &tr))
	assert.NotEmpty(tr.ID)
	assert.Contains(tr.Tab, "// Tuning: STANDARD")
	assert.Contains(tr.Tab, "e|")
	assert.Contains(tr.Summary, "3 frames mapped")
}

func TestTranscribeRejectsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	cmd.HandleTranscribe(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var er model.ErrorResponse
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &er))
	assert.NotEmpty(t, er.Error)
}

func TestTranscribeRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader([]byte("not midi")))
	w := httptest.NewRecorder()
	cmd.HandleTranscribe(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Result().StatusCode)
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/notefall/constants"
	"github.com/jsphweid/notefall/midi"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/pitch"
	"github.com/jsphweid/notefall/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() (http.Handler, *store.File) {
	st := store.NewMemory()
	rng := pitch.Range{Low: constants.DefaultRangeLow, High: constants.DefaultRangeHigh}
	return New(st, rng).Handler(), st
}

func do(h http.Handler, method, target string, body io.Reader) *http.Response {
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func decodeBody[A any](t *testing.T, resp *http.Response) A {
	var v A
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func triadMidi(t *testing.T) io.Reader {
	melody := model.Track{model.NewNote(60, 2), model.NewNote(64, 2), model.NewNote(67, 2), model.NewNote(72, 4)}
	var buf bytes.Buffer
	require.NoError(t, midi.Write(&buf, midi.Render(120, melody)))
	return &buf
}

func TestEncodeStoresSong(t *testing.T) {
	assert := assert.New(t)
	h, st := newHandler()

	resp := do(h, http.MethodPost, "/encode?title=triad", triadMidi(t))
	assert.Equal(http.StatusCreated, resp.StatusCode)
	song := decodeBody[model.Song](t, resp)
	assert.NotEmpty(song.ID)
	assert.Equal("triad", song.Title)
	assert.Equal("C2E2G2c4", song.Melody)
	assert.Equal(1, song.Multiplier)

	stored, err := st.Get(song.ID)
	assert.NoError(err)
	assert.Equal(song, stored)
}

func TestEncodeRejectsGarbage(t *testing.T) {
	assert := assert.New(t)
	h, _ := newHandler()

	resp := do(h, http.MethodPost, "/encode", bytes.NewReader([]byte("definitely not midi")))
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	res := decodeBody[model.ErrorResponse](t, resp)
	assert.NotEmpty(res.Error)
}

func TestEncodeRejectsBadTrackParam(t *testing.T) {
	h, _ := newHandler()
	resp := do(h, http.MethodPost, "/encode?melody=x", triadMidi(t))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)
	h, _ := newHandler()

	body, _ := json.Marshal(model.DecodeRequestBody{Text: "C2E2G2c4 ?"})
	resp := do(h, http.MethodPost, "/decode", bytes.NewReader(body))
	assert.Equal(http.StatusOK, resp.StatusCode)

	res := decodeBody[model.DecodeResponse](t, resp)
	assert.Equal([]model.NoteEvent{
		model.NewNote(60, 2),
		model.NewNote(64, 2),
		model.NewNote(67, 2),
		model.NewNote(72, 4),
	}, res.Events)
	assert.Equal([]model.SkippedText{{Offset: 9, Text: "?"}}, res.Skipped)
}

func TestDecodeBadJSON(t *testing.T) {
	h, _ := newHandler()
	resp := do(h, http.MethodPost, "/decode", bytes.NewReader([]byte("{")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSongLibrary(t *testing.T) {
	assert := assert.New(t)
	h, st := newHandler()
	saved, err := st.Put(model.Song{Title: "one", Tempo: 100, Melody: "C"})
	require.NoError(t, err)

	resp := do(h, http.MethodGet, "/songs", nil)
	assert.Equal(http.StatusOK, resp.StatusCode)
	list := decodeBody[[]model.SongOverview](t, resp)
	assert.Equal([]model.SongOverview{saved.Overview()}, list)

	resp = do(h, http.MethodGet, "/songs/"+saved.ID, nil)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(saved, decodeBody[model.Song](t, resp))

	resp = do(h, http.MethodDelete, "/songs/"+saved.ID, nil)
	assert.Equal(http.StatusNoContent, resp.StatusCode)

	resp = do(h, http.MethodGet, "/songs/"+saved.ID, nil)
	assert.Equal(http.StatusNotFound, resp.StatusCode)
	resp = do(h, http.MethodDelete, "/songs/"+saved.ID, nil)
	assert.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestEmptyLibraryIsArray(t *testing.T) {
	h, _ := newHandler()
	resp := do(h, http.MethodGet, "/songs", nil)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, "[]", string(raw))
}

func TestCORS(t *testing.T) {
	h, _ := newHandler()
	req := httptest.NewRequest(http.MethodGet, "/songs", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Result().Header.Get("Access-Control-Allow-Origin"))
}

// Package server exposes the song codec and library over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/notefall/convert"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/midi"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/notation"
	"github.com/jsphweid/notefall/pitch"
	"github.com/jsphweid/notefall/store"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

const maxBodyBytes = 16 << 20

type Server struct {
	store store.Store
	rng   pitch.Range
}

func New(st store.Store, rng pitch.Range) *Server {
	return &Server{store: st, rng: rng}
}

// Handler returns the routes wrapped in request logging and CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/encode", s.HandleEncode).Methods("POST")
	router.HandleFunc("/decode", s.HandleDecode).Methods("POST")
	router.HandleFunc("/songs", s.HandleListSongs).Methods("GET")
	router.HandleFunc("/songs/{id}", s.HandleGetSong).Methods("GET")
	router.HandleFunc("/songs/{id}", s.HandleDeleteSong).Methods("DELETE")
	router.Use(logRequests)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})
	return c.Handler(router)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.HTTP.Printf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.HTTP.Printf("could not write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		logger.HTTP.Printf("error: %v", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func storeStatus(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func trackParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("%s must be a track index, got %q", name, v)
	}
	return n, nil
}

// HandleEncode turns a MIDI file posted as the raw body into a stored song.
func (s *Server) HandleEncode(w http.ResponseWriter, r *http.Request) {
	opts := convert.DefaultOptions()
	opts.Range = s.rng
	opts.Title = r.URL.Query().Get("title")
	var err error
	if opts.MelodyTrack, err = trackParam(r, "melody"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if opts.AccompanimentTrack, err = trackParam(r, "accompaniment"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	parsed, err := midi.ReadMidi(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "reading MIDI"))
		return
	}
	song, err := convert.FromSMF(parsed, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if song.Title == "" {
		song.Title = "untitled"
	}

	saved, err := s.store.Put(song)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) HandleDecode(w http.ResponseWriter, r *http.Request) {
	var input model.DecodeRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}

	decoded := notation.Decode(input.Text)
	res := model.DecodeResponse{
		Events:  make([]model.NoteEvent, 0, len(decoded.Track)),
		Skipped: make([]model.SkippedText, 0, len(decoded.Skipped)),
	}
	res.Events = append(res.Events, decoded.Track...)
	for _, sk := range decoded.Skipped {
		res.Skipped = append(res.Skipped, model.SkippedText{Offset: sk.Offset, Text: sk.Text})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.store.List()
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) HandleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) HandleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Package server exposes the display over HTTP: JSON frames for remote
// renderers, a small note API and a websocket stream of redraws.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"grand-staff/debug"
	"grand-staff/midi"
	"grand-staff/notation"
	"grand-staff/render"
	"grand-staff/staff"
)

var ErrBadPitch = errors.New("pitch outside piano range")

// DefaultDebounce is how long redraw bursts are coalesced before a broadcast.
const DefaultDebounce = 16 * time.Millisecond

type Server struct {
	display  *staff.Display
	renderer *render.Renderer
	hub      *Hub
	handler  http.Handler
	upgrader websocket.Upgrader
	wait     time.Duration
}

type notesResponse struct {
	Mode    notation.SpellingMode `json:"mode"`
	Pitches []notation.Pitch      `json:"pitches"`
	Names   []string              `json:"names"`
	Bottom  map[string]int        `json:"bottom"`
}

type spellingRequest struct {
	Mode *notation.SpellingMode `json:"mode"`
}

type spellingResponse struct {
	Mode notation.SpellingMode `json:"mode"`
}

// New builds the router. origins is the CORS policy for the REST routes and
// the websocket handshake alike; wait <= 0 uses DefaultDebounce.
func New(display *staff.Display, renderer *render.Renderer, origins []string, wait time.Duration) *Server {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	s := &Server{
		display:  display,
		renderer: renderer,
		hub:      NewHub(),
		wait:     wait,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
	}

	router := mux.NewRouter().StrictSlash(true)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/frame", s.handleFrame).Methods("GET")
	api.HandleFunc("/notes", s.handleNotes).Methods("GET")
	api.HandleFunc("/notes", s.handleClear).Methods("DELETE")
	api.HandleFunc("/chord.mid", s.handleChordMIDI).Methods("GET")
	api.HandleFunc("/notes/{pitch:[0-9]+}/{state:on|off}", s.handleNote).Methods("POST")
	api.HandleFunc("/spelling", s.handleSpelling).Methods("PUT")
	api.HandleFunc("/ws", s.handleWS)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
	}).Handler(router)
	return s
}

// originAllowed follows rs/cors: an empty list or "*" allows everyone.
// Requests without an Origin header come from non-browser clients.
func originAllowed(origins []string, origin string) bool {
	if len(origins) == 0 || origin == "" {
		return true
	}
	for _, o := range origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// Run forwards display redraws to websocket clients until ctx is done.
func (s *Server) Run(ctx context.Context) {
	updates := s.display.Subscribe()
	debounced := debounce.New(s.wait)
	for {
		select {
		case <-ctx.Done():
			s.hub.CloseAll()
			return
		case <-updates:
			debounced(s.broadcast)
		}
	}
}

// ListenAndServe runs the HTTP server and the broadcaster until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.handler}
	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	debug.Log("server", "listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

func (s *Server) frame() render.Frame {
	pitches, mode := s.display.Snapshot()
	return s.renderer.Frame(pitches, mode)
}

func (s *Server) frameJSON() ([]byte, error) {
	return json.Marshal(s.frame())
}

func (s *Server) broadcast() {
	data, err := s.frameJSON()
	if err != nil {
		debug.Log("server", "encode frame: %v", err)
		return
	}
	s.hub.Broadcast(data)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.frame())
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	pitches, mode := s.display.Snapshot()
	res := notesResponse{
		Mode:    mode,
		Pitches: pitches,
		Names:   make([]string, len(pitches)),
		Bottom:  map[string]int{},
	}
	for i, p := range pitches {
		res.Names[i] = notation.Name(p, mode)
	}
	for _, c := range []notation.Clef{notation.Treble, notation.Bass} {
		if p, ok := s.display.Bottom(c); ok {
			res.Bottom[c.String()] = int(p)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	p, err := parsePitch(vars["pitch"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if vars["state"] == "on" {
		s.display.AddPitch(p)
	} else {
		s.display.RemovePitch(p)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleChordMIDI(w http.ResponseWriter, r *http.Request) {
	pitches, _ := s.display.Snapshot()
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", `attachment; filename="chord.mid"`)
	if err := midi.WriteChord(w, pitches, 0, 4); err != nil {
		debug.Log("server", "chord export: %v", err)
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.display.Clear()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSpelling(w http.ResponseWriter, r *http.Request) {
	var req spellingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Mode == nil {
		writeError(w, http.StatusBadRequest, errors.New("mode is required"))
		return
	}
	s.display.SetSpellingMode(*req.Mode)
	writeJSON(w, http.StatusOK, spellingResponse{Mode: s.display.SpellingMode()})
}

func parsePitch(raw string) (notation.Pitch, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPitch, raw)
	}
	p := notation.Pitch(n)
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrBadPitch, n)
	}
	return p, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Log("server", "write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// internal/httpserver/routes_sessions.go
//
// Session endpoints:
//   - POST /sessions               → start a solving or authoring session
//   - GET  /sessions/{id}          → current view
//   - POST /sessions/{id}/actions  → dispatch one action envelope
//   - POST /sessions/{id}/pause    → stop the solve timer
//   - POST /sessions/{id}/resume   → restart the solve timer
//   - GET  /sessions/{id}/history  → recent actions, oldest first

package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/session"
)

func (s *Server) mountSessions(r chi.Router) {
	r.Post("/sessions", s.handleCreateSession)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Post("/sessions/{id}/actions", s.handleAction)
	r.Post("/sessions/{id}/pause", s.handlePause)
	r.Post("/sessions/{id}/resume", s.handleResume)
	r.Get("/sessions/{id}/history", s.handleHistory)
}

// createSessionReq is the payload for POST /sessions.
type createSessionReq struct {
	PuzzleID string `json:"puzzleId" validate:"omitempty,max=64"`
	Mode     string `json:"mode" validate:"omitempty,oneof=solve solving build builder authoring"`
	Width    int    `json:"width" validate:"omitempty,min=1,max=25"`
	Height   int    `json:"height" validate:"omitempty,min=1,max=25"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := s.sessions.Create(r.Context(), session.CreateRequest{
		PuzzleID: strings.TrimSpace(req.PuzzleID),
		Mode:     mode,
		Width:    req.Width,
		Height:   req.Height,
		Owner:    s.callerID(w, r),
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_body")
		return
	}
	a, err := game.DecodeAction(body)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	v, err := s.sessions.Dispatch(r.Context(), chi.URLParam(r, "id"), a)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Pause(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Resume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.sessions.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": h})
}

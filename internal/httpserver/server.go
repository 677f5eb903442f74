// internal/httpserver/server.go
//
// HTTP server wiring for the crossword session API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Puzzle catalog: GET /puzzles, GET /puzzles/{id} (no answers).
//   - Sessions (optional auth): create, read, dispatch actions, pause/resume,
//     history, websocket stream.
//   - Daily puzzle endpoints: mounted under /daily.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The websocket route sits outside the timeout group; its lifetime is the
//     connection's.
//   - Errors are JSON bodies {"error": "..."}.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossword/internal/catalog"
	"github.com/robalobadob/crossword/internal/config"
	"github.com/robalobadob/crossword/internal/daily"
	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/grid"
	"github.com/robalobadob/crossword/internal/session"
	"github.com/robalobadob/crossword/internal/store"
)

const (
	handlerTimeout = 10 * time.Second
	maxBodyBytes   = 64 << 10
)

// Server bundles the router and the services behind it.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	catalog  *catalog.Catalog
	sessions *session.Manager
	results  *daily.Store // nil without a database
	validate *validator.Validate
	upgrader websocket.Upgrader
	now      func() time.Time

	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
// results may be nil, in which case the leaderboard is unavailable and daily
// replays are only prevented in memory.
func New(cfg config.Config, cat *catalog.Catalog, mgr *session.Manager, results *daily.Store) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		catalog:  cat,
		sessions: mgr,
		results:  results,
		validate: validator.New(),
		now:      time.Now,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)
	s.r.Use(s.withOptionalAuth)

	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Get("/sessions/{id}/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(handlerTimeout))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "crossword",
				"endpoints": []string{"/health", "/puzzles", "POST /sessions", "/daily/*", "/metrics"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		r.Get("/puzzles", s.handleListPuzzles)
		r.Get("/puzzles/{id}", s.handleGetPuzzle)

		s.mountSessions(r)
		s.mountDaily(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	return o == "" || o == s.cfg.ClientOrigin
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps service errors to status codes.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Str("requestId", chimw.GetReqID(r.Context())).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, catalog.ErrUnknownPuzzle):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBadRequest), errors.Is(err, game.ErrMalformedAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ------------------------------- puzzles -----------------------------------

type puzzleSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type clueView struct {
	Label     string          `json:"label"`
	Number    int             `json:"number"`
	Direction grid.Direction  `json:"direction"`
	Cells     []grid.Position `json:"cells"`
	Clue      string          `json:"clue"`
}

type puzzleDetail struct {
	puzzleSummary
	Highlight   string          `json:"highlight"`
	Highlighted []grid.Position `json:"highlighted"`
	Blocks      []grid.Position `json:"blocks"`
	Clues       []clueView      `json:"clues"`
}

func summarize(p *catalog.Puzzle) puzzleSummary {
	return puzzleSummary{ID: p.ID, Title: p.Title, Author: p.Author, Width: p.Width(), Height: p.Height()}
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	all := s.catalog.All()
	out := make([]puzzleSummary, 0, len(all))
	for _, p := range all {
		out = append(out, summarize(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	g, err := p.Grid()
	if err != nil {
		writeErr(w, r, err)
		return
	}

	d := puzzleDetail{
		puzzleSummary: summarize(p),
		Highlight:     g.Highlight().String(),
		Highlighted:   []grid.Position{},
		Blocks:        []grid.Position{},
	}
	for _, i := range g.Highlighted() {
		pos, _ := g.PositionOf(i)
		d.Highlighted = append(d.Highlighted, pos)
	}
	for i, v := range g.Cells() {
		if v == grid.Block {
			pos, _ := g.PositionOf(i)
			d.Blocks = append(d.Blocks, pos)
		}
	}
	for _, e := range g.Entries() {
		d.Clues = append(d.Clues, clueView{
			Label: e.Label(), Number: e.Number, Direction: e.Direction, Cells: e.Cells, Clue: p.Clue(e),
		})
	}
	writeJSON(w, http.StatusOK, d)
}

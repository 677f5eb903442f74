// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's solving session (or reuse it)
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Each player gets one daily session per date. The result is written by the
// session host when the session is solved; the database enforces one result
// per player and date. The puzzle pick is deterministic in date + salt.

package httpserver

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/crossword/internal/daily"
	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/session"
)

// dailyServer keeps the player|date → session id map.
type dailyServer struct {
	srv      *Server
	mu       sync.Mutex
	sessions map[string]string
}

func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{srv: s, sessions: make(map[string]string)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// today returns today's date key and puzzle id.
func (d *dailyServer) today() (date, puzzleID string) {
	now := d.srv.now().UTC()
	date = daily.DateKey(now)
	cat := d.srv.catalog
	if cat.Len() == 0 {
		return date, ""
	}
	return date, cat.At(daily.PuzzleIndex(now, d.srv.cfg.DailySalt, cat.Len())).ID
}

type newRes struct {
	SessionID string        `json:"sessionId,omitempty"`
	Date      string        `json:"date"`
	PuzzleID  string        `json:"puzzleId"`
	Played    bool          `json:"played"`
	Session   *session.View `json:"session,omitempty"`
}

// handleNew creates or reuses the caller's daily session.
//   - A stored result for today → Played=true, no session.
//   - Otherwise reuse the in-memory mapping or create a session.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.callerID(w, r)
	date, puzzleID := d.today()
	if puzzleID == "" {
		writeError(w, http.StatusServiceUnavailable, "no_puzzles")
		return
	}

	if st := d.srv.results; st != nil {
		if played, err := st.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
			writeJSON(w, http.StatusOK, newRes{Date: date, PuzzleID: puzzleID, Played: true})
			return
		}
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if v, err := d.srv.sessions.Get(r.Context(), id); err == nil {
			writeJSON(w, http.StatusOK, newRes{SessionID: id, Date: date, PuzzleID: puzzleID, Played: v.Snapshot.Success, Session: &v})
			return
		}
	}

	v, err := d.srv.sessions.Create(r.Context(), session.CreateRequest{
		PuzzleID:  puzzleID,
		Mode:      game.Solving,
		Owner:     uid,
		DailyDate: date,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	d.sessions[key] = v.ID
	writeJSON(w, http.StatusCreated, newRes{SessionID: v.ID, Date: date, PuzzleID: puzzleID, Session: &v})
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if d.srv.results == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard_unavailable")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.srv.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

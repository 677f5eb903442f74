package daily

import (
	"context"
	"database/sql"
)

// Result is one finished daily solve.
type Result struct {
	Player    string `json:"player"`
	Date      string `json:"date"`
	PuzzleID  string `json:"puzzleId"`
	SessionID string `json:"sessionId,omitempty"`
	ElapsedMs int64  `json:"elapsedMs"`
	Cheated   bool   `json:"cheated"`
}

// Store keeps daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, player, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE player=? AND date=?",
		player, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r unless the player already has a result for r.Date.
// It reports whether a row was written.
func (s *Store) InsertResult(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player, date, puzzle_id, session_id, elapsed_ms, cheated)
		VALUES(?,?,?,?,?,?)`, r.Player, r.Date, r.PuzzleID, r.SessionID, r.ElapsedMs, r.Cheated,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type LBRow struct {
	Player    string `json:"player"`
	ElapsedMs int64  `json:"elapsedMs"`
	Cheated   bool   `json:"cheated"`
}

// Leaderboard lists the fastest results for date, clean solves first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, elapsed_ms, cheated
		FROM daily_results
		WHERE date=?
		ORDER BY cheated ASC, elapsed_ms ASC, created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Player, &r.ElapsedMs, &r.Cheated); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

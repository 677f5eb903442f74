// internal/store/store.go
//
// Persistence boundary for crossword sessions.
// A Record pairs the engine snapshot with host metadata (owner, puzzle,
// daily date, elapsed solve time). Implementations:
//   - NewMemoryStore: map + RWMutex, lost on restart.
//   - NewSQLiteStore: sessions table in a sqlite database (see sqlite.go).

package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/crossword/internal/game"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("store: session not found")

// Record is one persisted session.
type Record struct {
	ID        string        `json:"id"`
	PuzzleID  string        `json:"puzzleId,omitempty"`
	Owner     string        `json:"owner,omitempty"`
	DailyDate string        `json:"dailyDate,omitempty"`
	Snapshot  game.Snapshot `json:"snapshot"`
	ElapsedMs int64         `json:"elapsedMs"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Store defines the persistence interface for sessions.
type Store interface {
	// Save inserts or replaces the record with rec.ID.
	Save(ctx context.Context, rec Record) error

	// Get retrieves a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)
}

package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gammazero/deque"

	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/timer"
)

// View is what clients see of a session.
type View struct {
	ID        string        `json:"id"`
	PuzzleID  string        `json:"puzzleId,omitempty"`
	Owner     string        `json:"owner,omitempty"`
	DailyDate string        `json:"dailyDate,omitempty"`
	Snapshot  game.Snapshot `json:"state"`
	ElapsedMs int64         `json:"elapsedMs"`
	Paused    bool          `json:"paused"`
}

// HistoryEntry is one dispatched action.
type HistoryEntry struct {
	Seq    int             `json:"seq"`
	Kind   game.ActionKind `json:"kind"`
	Action json.RawMessage `json:"action"`
	At     time.Time       `json:"at"`
}

// Session is a single live game. All fields are guarded by mu.
type Session struct {
	mu sync.Mutex

	id        string
	puzzleID  string
	owner     string
	dailyDate string

	state    game.State
	timer    *timer.Timer
	recorded bool

	seq     int
	history deque.Deque

	nextSub int
	subs    map[int]chan View
}

// view is the client-facing form of the session. The answer key of a
// solving session is withheld.
func (s *Session) view() View {
	snap := s.state.Snapshot()
	if snap.Mode == game.Solving {
		snap.Answers = nil
	}
	return View{
		ID:        s.id,
		PuzzleID:  s.puzzleID,
		Owner:     s.owner,
		DailyDate: s.dailyDate,
		Snapshot:  snap,
		ElapsedMs: s.timer.Elapsed().Milliseconds(),
		Paused:    s.timer.Paused(),
	}
}

func (s *Session) remember(a game.Action, at time.Time, limit int) {
	raw, err := game.EncodeAction(a)
	if err != nil {
		raw = nil
	}
	s.seq++
	s.history.PushBack(HistoryEntry{Seq: s.seq, Kind: a.Kind(), Action: raw, At: at})
	for s.history.Len() > limit {
		s.history.PopFront()
	}
}

func (s *Session) historyEntries() []HistoryEntry {
	out := make([]HistoryEntry, 0, s.history.Len())
	for i := 0; i < s.history.Len(); i++ {
		out = append(out, s.history.At(i).(HistoryEntry))
	}
	return out
}

// publish hands v to every subscriber. A full buffer drops its oldest view
// so the newest always lands.
func (s *Session) publish(v View) {
	for _, ch := range s.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

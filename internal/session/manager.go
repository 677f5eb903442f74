// internal/session/manager.go
//
// Live session host around the pure engine.
// Responsibilities:
//   - Create solving/authoring sessions from the catalog or a blank grid.
//   - Serialize actions per session (one writer at a time), apply
//     game.Transition, keep a bounded action history.
//   - Persist the new snapshot after each transition and fan it out to
//     subscribers.
//   - Drive the solve timer and record daily results once on success.
//   - Rehydrate sessions from the store when they are not in memory.
//
// Notes:
//   - Persistence errors are logged and counted; they never undo a
//     transition.
//   - Subscribers get the latest view without blocking the writer; a slow
//     subscriber misses intermediate views.

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossword/internal/catalog"
	"github.com/robalobadob/crossword/internal/daily"
	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/grid"
	"github.com/robalobadob/crossword/internal/store"
	"github.com/robalobadob/crossword/internal/timer"
)

const (
	defaultHistory = 64
	subscriberBuf  = 4
	maxDimension   = 25
)

var (
	// ErrBadRequest covers create requests that name no usable puzzle or
	// grid size.
	ErrBadRequest = errors.New("session: bad request")
)

// ResultRecorder receives daily results. *daily.Store satisfies it.
type ResultRecorder interface {
	InsertResult(ctx context.Context, r daily.Result) (bool, error)
}

// Options configures a Manager. Store and Catalog are required.
type Options struct {
	Store      store.Store
	Catalog    *catalog.Catalog
	Results    ResultRecorder // optional
	HistoryLen int
	Now        func() time.Time
}

// Manager owns the live sessions of one process.
type Manager struct {
	store      store.Store
	catalog    *catalog.Catalog
	results    ResultRecorder
	historyLen int
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		store:      opts.Store,
		catalog:    opts.Catalog,
		results:    opts.Results,
		historyLen: opts.HistoryLen,
		now:        opts.Now,
		sessions:   make(map[string]*Session),
	}
	if m.historyLen <= 0 {
		m.historyLen = defaultHistory
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// CreateRequest describes a new session.
type CreateRequest struct {
	PuzzleID  string
	Mode      game.Mode
	Width     int // authoring on a blank grid
	Height    int
	Owner     string
	DailyDate string
}

// Create starts a session and persists its first snapshot.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (View, error) {
	state, err := m.initialState(req)
	if err != nil {
		return View{}, err
	}
	s := m.newSession(uuid.NewString(), req.PuzzleID, req.Owner, req.DailyDate, state, 0)
	if state.Mode == game.Solving {
		s.timer.Resume()
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	sessionsLive.Inc()
	sessionsCreated.WithLabelValues(state.Mode.String()).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	m.persist(ctx, s)
	log.Info().Str("session", s.id).Str("puzzle", req.PuzzleID).Str("mode", state.Mode.String()).Msg("session created")
	return s.view(), nil
}

func (m *Manager) initialState(req CreateRequest) (game.State, error) {
	if req.PuzzleID == "" {
		if req.Mode != game.Authoring {
			return game.State{}, fmt.Errorf("%w: solving needs a puzzle", ErrBadRequest)
		}
		if req.Width < 1 || req.Height < 1 || req.Width > maxDimension || req.Height > maxDimension {
			return game.State{}, fmt.Errorf("%w: grid must be 1..%d on each side", ErrBadRequest, maxDimension)
		}
		g, err := grid.NewBlank(req.Width, req.Height, true)
		if err != nil {
			return game.State{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return game.NewBuilder(g), nil
	}

	p, err := m.catalog.Get(req.PuzzleID)
	if err != nil {
		return game.State{}, err
	}
	if req.Mode == game.Authoring {
		g, err := p.FilledGrid()
		if err != nil {
			return game.State{}, err
		}
		return game.NewBuilder(g), nil
	}
	return p.NewSession()
}

func (m *Manager) newSession(id, puzzleID, owner, dailyDate string, state game.State, banked time.Duration) *Session {
	return &Session{
		id:        id,
		puzzleID:  puzzleID,
		owner:     owner,
		dailyDate: dailyDate,
		state:     state,
		timer:     timer.New(timer.WithClock(m.now), timer.WithBanked(banked)),
		recorded:  state.Solve != nil && state.Solve.Success,
		subs:      make(map[int]chan View),
	}
}

// Dispatch applies one action to the session and returns the new view.
func (m *Manager) Dispatch(ctx context.Context, id string, a game.Action) (View, error) {
	if a == nil {
		return View{}, fmt.Errorf("%w: no action", ErrBadRequest)
	}
	s, err := m.load(ctx, id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	next := game.Transition(s.state, a)
	transitionLatency.Observe(time.Since(start).Seconds())
	actionsTotal.WithLabelValues(kindLabel(a)).Inc()

	s.state = next
	s.remember(a, m.now(), m.historyLen)
	if solving := next.Solve; solving != nil {
		if solving.Success {
			s.timer.Pause()
		} else {
			s.timer.Resume()
		}
	}

	m.persist(ctx, s)
	m.recordDaily(ctx, s)
	v := s.view()
	s.publish(v)
	return v, nil
}

// Get returns the current view of a session.
func (m *Manager) Get(ctx context.Context, id string) (View, error) {
	s, err := m.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// State returns the engine state of a session.
func (m *Manager) State(ctx context.Context, id string) (game.State, error) {
	s, err := m.load(ctx, id)
	if err != nil {
		return game.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

// Pause stops the solve timer and persists the banked time.
func (m *Manager) Pause(ctx context.Context, id string) (View, error) {
	return m.clock(ctx, id, (*timer.Timer).Pause)
}

// Resume restarts the solve timer unless the puzzle is already solved.
func (m *Manager) Resume(ctx context.Context, id string) (View, error) {
	return m.clock(ctx, id, (*timer.Timer).Resume)
}

func (m *Manager) clock(ctx context.Context, id string, op func(*timer.Timer)) (View, error) {
	s, err := m.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Solve == nil || !s.state.Solve.Success {
		op(s.timer)
	}
	m.persist(ctx, s)
	v := s.view()
	s.publish(v)
	return v, nil
}

// History returns the remembered actions, oldest first.
func (m *Manager) History(ctx context.Context, id string) ([]HistoryEntry, error) {
	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyEntries(), nil
}

// Subscribe returns a channel that receives every new view of the session
// and a cancel func that closes it.
func (m *Manager) Subscribe(ctx context.Context, id string) (<-chan View, func(), error) {
	s, err := m.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan View, subscriberBuf)
	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch
	ch <- s.view()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[key]; ok {
				delete(s.subs, key)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// Evict drops a session from memory; the stored record stays.
func (m *Manager) Evict(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	sessionsLive.Dec()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ch := range s.subs {
		delete(s.subs, key)
		close(ch)
	}
}

// load finds a live session or rehydrates it from the store.
func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := game.Restore(rec.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	restored := m.newSession(rec.ID, rec.PuzzleID, rec.Owner, rec.DailyDate, state,
		time.Duration(rec.ElapsedMs)*time.Millisecond)

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	m.sessions[id] = restored
	sessionsLive.Inc()
	log.Info().Str("session", id).Msg("session restored from store")
	return restored, nil
}

// persist saves the session; call with s.mu held.
func (m *Manager) persist(ctx context.Context, s *Session) {
	rec := store.Record{
		ID:        s.id,
		PuzzleID:  s.puzzleID,
		Owner:     s.owner,
		DailyDate: s.dailyDate,
		Snapshot:  s.state.Snapshot(),
		ElapsedMs: s.timer.Elapsed().Milliseconds(),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		persistErrors.Inc()
		log.Warn().Err(err).Str("session", s.id).Msg("persist session failed")
	}
}

// recordDaily writes the daily result the first time a daily session is
// solved; call with s.mu held.
func (m *Manager) recordDaily(ctx context.Context, s *Session) {
	sv := s.state.Solve
	if s.recorded || sv == nil || !sv.Success {
		return
	}
	s.recorded = true
	revealed := sv.RevealedCells.Len() > 0
	solvesTotal.WithLabelValues(strconv.FormatBool(revealed)).Inc()

	if m.results == nil || s.dailyDate == "" || s.owner == "" {
		return
	}
	r := daily.Result{
		Player:    s.owner,
		Date:      s.dailyDate,
		PuzzleID:  s.puzzleID,
		SessionID: s.id,
		ElapsedMs: s.timer.Elapsed().Milliseconds(),
		Cheated:   revealed,
	}
	wrote, err := m.results.InsertResult(ctx, r)
	if err != nil {
		log.Warn().Err(err).Str("session", s.id).Msg("record daily result failed")
		return
	}
	log.Info().Str("player", r.Player).Str("date", r.Date).Int64("elapsedMs", r.ElapsedMs).
		Bool("cheated", r.Cheated).Bool("recorded", wrote).Msg("daily solved")
}

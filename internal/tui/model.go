// Package tui is the terminal host for the crossword engine: a bubbletea
// model that turns key presses into engine actions and renders the grid with
// lipgloss.
//
// The model owns the solve timer. It listens for focus reports, so the
// program should be started with tea.WithReportFocus.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/grid"
	"github.com/robalobadob/crossword/internal/timer"
)

const tickInterval = time.Second

// Config describes what the model is playing.
type Config struct {
	Title    string
	PuzzleID string
	// Clue returns the clue for an entry; nil shows no clues.
	Clue func(grid.Entry) string
	// SavePath is where ctrl+s (and quitting) writes the game; empty
	// disables saving.
	SavePath string
	// Timer defaults to a fresh paused timer.
	Timer *timer.Timer
}

type tickMsg time.Time

// savedMsg reports the outcome of a save.
type savedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model.
type Model struct {
	cfg   Config
	state game.State
	timer *timer.Timer

	width, height int
	status        string
	quitting      bool
}

// New wraps an engine state. Solving sessions start the timer.
func New(state game.State, cfg Config) Model {
	t := cfg.Timer
	if t == nil {
		t = timer.New()
	}
	m := Model{cfg: cfg, state: state, timer: t}
	m.syncTimer()
	return m
}

// State returns the current engine state.
func (m Model) State() game.State { return m.state }

// Elapsed returns the solve time so far.
func (m Model) Elapsed() time.Duration { return m.timer.Elapsed() }

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.FocusMsg:
		m.syncTimer()
		return m, nil

	case tea.BlurMsg:
		m.timer.Pause()
		return m, nil

	case tickMsg:
		return m, tick()

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		m.quitting = true
		m.timer.Pause()
		if m.cfg.SavePath != "" {
			if err := Save(m.cfg.SavePath, m.saveFile()); err != nil {
				log.Warn().Err(err).Str("path", m.cfg.SavePath).Msg("save on quit")
			}
		}
		return m, tea.Quit
	case "ctrl+s":
		if m.cfg.SavePath == "" {
			m.status = "no save file"
			return m, nil
		}
		path, file := m.cfg.SavePath, m.saveFile()
		return m, func() tea.Msg { return savedMsg{path: path, err: Save(path, file)} }
	}

	a, ok := actionFor(msg)
	if !ok {
		return m, nil
	}
	m.dispatch(a)
	return m, nil
}

func (m *Model) dispatch(a game.Action) {
	m.state = game.Transition(m.state, a)
	m.status = ""
	m.syncTimer()
	log.Debug().Str("kind", string(a.Kind())).Str("active", m.state.Active.Position.String()).Msg("action")
}

// syncTimer runs the clock only while an unsolved puzzle is on screen.
func (m *Model) syncTimer() {
	if s := m.state.Solve; s != nil && !s.Success {
		m.timer.Resume()
		return
	}
	m.timer.Pause()
}

func (m Model) saveFile() SaveFile {
	return SaveFile{
		PuzzleID:  m.cfg.PuzzleID,
		Title:     m.cfg.Title,
		ElapsedMs: m.timer.Elapsed().Milliseconds(),
		Snapshot:  m.state.Snapshot(),
	}
}

// actionFor maps terminal keys onto the engine's key names.
func actionFor(msg tea.KeyMsg) (game.Action, bool) {
	switch msg.String() {
	case "ctrl+k":
		return game.Cheat{Unit: game.UnitSquare}, true
	case "ctrl+e":
		return game.Cheat{Unit: game.UnitEntry}, true
	case "ctrl+g":
		return game.Cheat{Unit: game.UnitPuzzle}, true
	case "ctrl+r":
		return game.Cheat{Unit: game.UnitSquare, IsReveal: true}, true
	case "ctrl+t":
		return game.Cheat{Unit: game.UnitEntry, IsReveal: true}, true
	case "ctrl+y":
		return game.Cheat{Unit: game.UnitPuzzle, IsReveal: true}, true
	case "ctrl+a":
		return game.ToggleAutocheck{}, true
	case "ctrl+b":
		return game.Keypress{Key: "{rebus}"}, true
	case "ctrl+d":
		return game.DismissKeepTrying{}, true
	}

	switch msg.Type {
	case tea.KeyEnter:
		return game.Keypress{Key: "Enter"}, true
	case tea.KeyEsc:
		return game.Keypress{Key: "Escape"}, true
	case tea.KeyBackspace, tea.KeyDelete:
		return game.Keypress{Key: "Backspace"}, true
	case tea.KeyTab:
		return game.Keypress{Key: "Tab"}, true
	case tea.KeyShiftTab:
		return game.Keypress{Key: "Tab", Shift: true}, true
	case tea.KeyUp:
		return game.Keypress{Key: "ArrowUp"}, true
	case tea.KeyDown:
		return game.Keypress{Key: "ArrowDown"}, true
	case tea.KeyLeft:
		return game.Keypress{Key: "ArrowLeft"}, true
	case tea.KeyRight:
		return game.Keypress{Key: "ArrowRight"}, true
	case tea.KeySpace:
		return game.Keypress{Key: " "}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			return game.Keypress{Key: string(msg.Runes[0])}, true
		}
	}
	return nil, false
}

func formatElapsed(d time.Duration) string {
	s := int(d / time.Second)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

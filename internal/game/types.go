// internal/game/types.go
//
// Interaction state for the crossword engine.
// Defines:
//   - Mode: Solving or Authoring.
//   - State: the common base (cursor, grid, UI flags, rebus input) plus a
//     mode-specific payload (SolveState or BuildState).
//   - CheatUnit: the cell set a check/reveal applies to.
//
// States are values. Transition builds a new State and never writes through
// the payload pointers or the sets of the state it was given, so any number of
// readers may hold older versions.

package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/crossword/internal/collections"
	"github.com/robalobadob/crossword/internal/grid"
)

var (
	// ErrAnswerKeyMismatch is returned when an answer key does not line up
	// with the grid (length or block placement).
	ErrAnswerKeyMismatch = errors.New("game: answer key does not match grid")
	// ErrInvalidSnapshot is returned by Restore for snapshots that cannot be
	// rehydrated.
	ErrInvalidSnapshot = errors.New("game: invalid snapshot")
	// ErrMalformedAction is returned by DecodeAction for envelopes missing
	// the fields their type requires.
	ErrMalformedAction = errors.New("game: malformed action")
)

// Mode selects which layer sits on top of the generic grid interface.
type Mode int

const (
	Solving Mode = iota
	Authoring
)

func (m Mode) String() string {
	switch m {
	case Solving:
		return "solving"
	case Authoring:
		return "authoring"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "solving"/"solve" and "authoring"/"build".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solving", "solve", "":
		return Solving, nil
	case "authoring", "build", "builder":
		return Authoring, nil
	default:
		return Solving, fmt.Errorf("unknown mode: %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// State is one immutable version of an interaction session.
type State struct {
	Active grid.PosAndDir
	Grid   *grid.Grid

	ShowKeyboard       bool
	IsTablet           bool
	ShowExtraKeyLayout bool
	IsEnteringRebus    bool
	RebusValue         string

	// WrongCells holds cell indices a check found incorrect. Always empty
	// while authoring.
	WrongCells collections.Set[int]

	Mode  Mode
	Solve *SolveState // set iff Mode == Solving
	Build *BuildState // set iff Mode == Authoring
}

// SolveState is the solving-mode payload.
type SolveState struct {
	// Answers is parallel to the grid's cells; never modified.
	Answers       []string
	VerifiedCells collections.Set[int]
	RevealedCells collections.Set[int]

	Filled  bool
	Success bool

	Autocheck           bool
	DismissedKeepTrying bool
	DismissedSuccess    bool
}

// BuildState is the authoring-mode payload, recomputed by ValidateGrid.
type BuildState struct {
	GridIsComplete  bool
	Repeats         collections.Set[string]
	HasNoShortWords bool
}

// CheatUnit selects the cells a check or reveal covers.
type CheatUnit int

const (
	UnitSquare CheatUnit = iota
	UnitEntry
	UnitPuzzle
)

func (u CheatUnit) String() string {
	switch u {
	case UnitSquare:
		return "square"
	case UnitEntry:
		return "entry"
	case UnitPuzzle:
		return "puzzle"
	default:
		return fmt.Sprintf("CheatUnit(%d)", int(u))
	}
}

// ParseCheatUnit accepts "square", "entry" or "puzzle".
func ParseCheatUnit(s string) (CheatUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square", "cell":
		return UnitSquare, nil
	case "entry", "word":
		return UnitEntry, nil
	case "puzzle", "grid":
		return UnitPuzzle, nil
	default:
		return UnitSquare, fmt.Errorf("unknown cheat unit: %q", s)
	}
}

// ActiveEntry returns the entry under the cursor in the cursor's direction.
func (s State) ActiveEntry() (*grid.Entry, int) {
	if s.Grid == nil {
		return nil, 0
	}
	e, idx, err := s.Grid.EntryAtPosition(s.Active)
	if err != nil {
		return nil, 0
	}
	return e, idx
}

// IsVerified reports whether cell i has been checked correct or revealed.
func (s State) IsVerified(i int) bool {
	return s.Solve != nil && s.Solve.VerifiedCells.Contains(i)
}

// IsRevealed reports whether cell i was filled in by a reveal.
func (s State) IsRevealed(i int) bool {
	return s.Solve != nil && s.Solve.RevealedCells.Contains(i)
}

// IsWrong reports whether cell i was checked and found incorrect.
func (s State) IsWrong(i int) bool {
	return s.WrongCells.Contains(i)
}

// internal/game/snapshot.go
//
// Persistence boundary for interaction states.
// A Snapshot is a plain, serializable record (JSON and YAML tags) holding the
// grid cells, cursor, UI flags and mode payload. Derived data (entries,
// numbering, Filled/Success, authoring flags) is not trusted from the record:
// Restore recomputes it.
package game

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/crossword/internal/collections"
	"github.com/robalobadob/crossword/internal/grid"
)

// Snapshot is the serializable form of a State.
type Snapshot struct {
	Mode              Mode           `json:"mode" yaml:"mode"`
	Width             int            `json:"width" yaml:"width"`
	Height            int            `json:"height" yaml:"height"`
	Cells             []string       `json:"cells" yaml:"cells"`
	AllowBlockEditing bool           `json:"allowBlockEditing,omitempty" yaml:"allowBlockEditing,omitempty"`
	Highlighted       []int          `json:"highlighted,omitempty" yaml:"highlighted,omitempty"`
	Highlight         string         `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Active            grid.PosAndDir `json:"active" yaml:"active"`

	ShowKeyboard       bool   `json:"showKeyboard,omitempty" yaml:"showKeyboard,omitempty"`
	IsTablet           bool   `json:"isTablet,omitempty" yaml:"isTablet,omitempty"`
	ShowExtraKeyLayout bool   `json:"showExtraKeyLayout,omitempty" yaml:"showExtraKeyLayout,omitempty"`
	IsEnteringRebus    bool   `json:"isEnteringRebus,omitempty" yaml:"isEnteringRebus,omitempty"`
	RebusValue         string `json:"rebusValue,omitempty" yaml:"rebusValue,omitempty"`
	WrongCells         []int  `json:"wrongCells,omitempty" yaml:"wrongCells,omitempty"`

	// Solving
	Answers             []string `json:"answers,omitempty" yaml:"answers,omitempty"`
	VerifiedCells       []int    `json:"verifiedCells,omitempty" yaml:"verifiedCells,omitempty"`
	RevealedCells       []int    `json:"revealedCells,omitempty" yaml:"revealedCells,omitempty"`
	Filled              bool     `json:"filled,omitempty" yaml:"filled,omitempty"`
	Success             bool     `json:"success,omitempty" yaml:"success,omitempty"`
	Autocheck           bool     `json:"autocheck,omitempty" yaml:"autocheck,omitempty"`
	DismissedKeepTrying bool     `json:"dismissedKeepTrying,omitempty" yaml:"dismissedKeepTrying,omitempty"`
	DismissedSuccess    bool     `json:"dismissedSuccess,omitempty" yaml:"dismissedSuccess,omitempty"`

	// Authoring
	GridIsComplete  bool     `json:"gridIsComplete,omitempty" yaml:"gridIsComplete,omitempty"`
	Repeats         []string `json:"repeats,omitempty" yaml:"repeats,omitempty"`
	HasNoShortWords bool     `json:"hasNoShortWords,omitempty" yaml:"hasNoShortWords,omitempty"`
}

// Snapshot captures s for storage.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:               s.Mode,
		Active:             s.Active,
		ShowKeyboard:       s.ShowKeyboard,
		IsTablet:           s.IsTablet,
		ShowExtraKeyLayout: s.ShowExtraKeyLayout,
		IsEnteringRebus:    s.IsEnteringRebus,
		RebusValue:         s.RebusValue,
		WrongCells:         collections.Sorted(s.WrongCells),
	}
	if g := s.Grid; g != nil {
		snap.Width, snap.Height = g.Width(), g.Height()
		snap.Cells = g.Cells()
		snap.AllowBlockEditing = g.AllowBlockEditing()
		snap.Highlighted = g.Highlighted()
		snap.Highlight = g.Highlight().String()
	}
	if sv := s.Solve; sv != nil {
		snap.Answers = append([]string(nil), sv.Answers...)
		snap.VerifiedCells = collections.Sorted(sv.VerifiedCells)
		snap.RevealedCells = collections.Sorted(sv.RevealedCells)
		snap.Filled, snap.Success = sv.Filled, sv.Success
		snap.Autocheck = sv.Autocheck
		snap.DismissedKeepTrying = sv.DismissedKeepTrying
		snap.DismissedSuccess = sv.DismissedSuccess
	}
	if bs := s.Build; bs != nil {
		snap.GridIsComplete = bs.GridIsComplete
		snap.Repeats = collections.Sorted(bs.Repeats)
		snap.HasNoShortWords = bs.HasNoShortWords
	}
	return snap
}

// Restore rebuilds a State from a snapshot, re-deriving entries and the
// completion flags.
func Restore(snap Snapshot) (State, error) {
	highlight, err := grid.ParseHighlight(snap.Highlight)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	g, err := grid.New(grid.Config{
		Width:             snap.Width,
		Height:            snap.Height,
		Cells:             snap.Cells,
		AllowBlockEditing: snap.AllowBlockEditing,
		Highlighted:       snap.Highlighted,
		Highlight:         highlight,
	})
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	wrong, err := indexSet(g, snap.WrongCells)
	if err != nil {
		return State{}, err
	}

	var s State
	switch snap.Mode {
	case Solving:
		s, err = NewPuzzle(g, snap.Answers)
		if err != nil {
			return State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		verified, err := indexSet(g, snap.VerifiedCells)
		if err != nil {
			return State{}, err
		}
		revealed, err := indexSet(g, snap.RevealedCells)
		if err != nil {
			return State{}, err
		}
		for i := range revealed {
			verified.Add(i)
		}
		sv := *s.Solve
		sv.VerifiedCells, sv.RevealedCells = verified, revealed
		sv.Autocheck = snap.Autocheck
		sv.DismissedKeepTrying = snap.DismissedKeepTrying
		sv.DismissedSuccess = snap.DismissedSuccess
		s.Solve = &sv
		s.WrongCells = wrong
	case Authoring:
		s = NewBuilder(g)
	default:
		return State{}, fmt.Errorf("%w: mode %v", ErrInvalidSnapshot, snap.Mode)
	}

	if s.Grid.InBounds(snap.Active.Position) && snap.Active.Dir.Valid() {
		s.Active = snap.Active
	}
	s.ShowKeyboard = snap.ShowKeyboard
	s.IsTablet = snap.IsTablet
	s.ShowExtraKeyLayout = snap.ShowExtraKeyLayout
	s.IsEnteringRebus = snap.IsEnteringRebus
	s.RebusValue = snap.RebusValue
	return s, nil
}

func indexSet(g *grid.Grid, indices []int) (collections.Set[int], error) {
	out := collections.NewSet[int]()
	for _, i := range indices {
		if i < 0 || i >= g.Len() {
			return nil, fmt.Errorf("%w: cell %d out of range", ErrInvalidSnapshot, i)
		}
		out.Add(i)
	}
	return out, nil
}

// MarshalSnapshotYAML renders a snapshot as YAML.
func MarshalSnapshotYAML(snap Snapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}

// UnmarshalSnapshotYAML parses a YAML snapshot.
func UnmarshalSnapshotYAML(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}

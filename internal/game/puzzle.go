// internal/game/puzzle.go
//
// Solving mode: answer key, check/reveal and completion tracking.
// Responsibilities:
//   - Build a solving state from a grid and a parallel answer key.
//   - Check or reveal a square, the active entry, or the whole puzzle.
//   - Recompute Filled/Success from scratch after every change.
//   - Gate edits: blocks, verified cells and solved puzzles are read-only.
package game

import (
	"fmt"
	"slices"

	"github.com/robalobadob/crossword/internal/collections"
	"github.com/robalobadob/crossword/internal/grid"
)

// NewPuzzle starts a solving session on g. answers must have one value per
// cell, with blocks in the same places as g.
func NewPuzzle(g *grid.Grid, answers []string) (State, error) {
	if len(answers) != g.Len() {
		return State{}, fmt.Errorf("%w: %d answers for %d cells", ErrAnswerKeyMismatch, len(answers), g.Len())
	}
	for i, a := range answers {
		if (a == grid.Block) != (g.Cell(i) == grid.Block) {
			return State{}, fmt.Errorf("%w: block mismatch at cell %d", ErrAnswerKeyMismatch, i)
		}
	}
	g = g.WithBlockEditing(false)
	s := State{
		Active:     grid.PosAndDir{Position: g.NextNonBlock(grid.Position{}), Dir: grid.Across},
		Grid:       g,
		WrongCells: collections.NewSet[int](),
		Mode:       Solving,
		Solve: &SolveState{
			Answers:       slices.Clone(answers),
			VerifiedCells: collections.NewSet[int](),
			RevealedCells: collections.NewSet[int](),
		},
	}
	return CheckComplete(s), nil
}

func puzzleReducer(s State, a Action) State {
	if next, ok := gridInterfaceReducer(s, a); ok {
		return next
	}
	next, _ := solvingReducer(s, a)
	return next
}

// solvingReducer handles the solving-only actions.
func solvingReducer(s State, a Action) (State, bool) {
	switch act := a.(type) {
	case Cheat:
		return CheatCurrent(s, act.Unit, act.IsReveal), true
	case ToggleAutocheck:
		s = cheatCells(s, allCells(s.Grid), false)
		sv := *s.Solve
		sv.Autocheck = !sv.Autocheck
		s.Solve = &sv
		return s, true
	case DismissKeepTrying:
		sv := *s.Solve
		sv.DismissedKeepTrying = true
		s.Solve = &sv
		return s, true
	case DismissSuccess:
		sv := *s.Solve
		sv.DismissedSuccess = true
		s.Solve = &sv
		return s, true
	default:
		return s, false
	}
}

// CheatCurrent checks (or reveals) the cells selected by unit, relative to
// the cursor: the active square, the active entry, or every cell.
func CheatCurrent(s State, unit CheatUnit, isReveal bool) State {
	if s.Solve == nil || s.Grid == nil {
		return s
	}
	var cells []grid.Position
	switch unit {
	case UnitSquare:
		if s.Grid.InBounds(s.Active.Position) {
			cells = []grid.Position{s.Active.Position}
		}
	case UnitEntry:
		if e, _ := s.ActiveEntry(); e != nil {
			cells = e.Cells
		}
	case UnitPuzzle:
		cells = allCells(s.Grid)
	}
	if len(cells) == 0 {
		return s
	}
	return cheatCells(s, cells, isReveal)
}

// cheatCells compares each listed cell with the answer key. Correct cells
// become verified; blank cells are left alone by a check; wrong cells are
// flagged by a check and overwritten (and marked revealed) by a reveal.
func cheatCells(s State, cells []grid.Position, isReveal bool) State {
	sv := *s.Solve
	verified := sv.VerifiedCells.Clone()
	revealed := sv.RevealedCells.Clone()
	wrong := s.WrongCells.Clone()
	g := s.Grid

	for _, p := range cells {
		i, err := g.CellIndex(p)
		if err != nil {
			continue
		}
		want := sv.Answers[i]
		current := g.Cell(i)
		if current == grid.Block || want == grid.Block {
			continue
		}
		switch {
		case current == want:
			verified.Add(i)
			wrong.Remove(i)
		case isReveal:
			next, err := g.WithNewChar(p, want)
			if err != nil {
				continue
			}
			g = next
			revealed.Add(i)
			verified.Add(i)
			wrong.Remove(i)
		case !grid.IsBlank(current):
			wrong.Add(i)
		}
	}

	sv.VerifiedCells, sv.RevealedCells = verified, revealed
	s.Solve = &sv
	s.Grid = g
	s.WrongCells = wrong
	return CheckComplete(s)
}

// CheckComplete recomputes Filled (no blank cells) and Success (every cell
// equals its answer) from scratch.
func CheckComplete(s State) State {
	if s.Solve == nil || s.Grid == nil {
		return s
	}
	filled, success := true, true
	for i := 0; i < s.Grid.Len(); i++ {
		v := s.Grid.Cell(i)
		if grid.IsBlank(v) {
			filled, success = false, false
			break
		}
		if v != s.Solve.Answers[i] {
			success = false
		}
	}
	if filled == s.Solve.Filled && success == s.Solve.Success {
		return s
	}
	sv := *s.Solve
	sv.Filled, sv.Success = filled, success
	s.Solve = &sv
	return s
}

func allCells(g *grid.Grid) []grid.Position {
	out := make([]grid.Position, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		p, _ := g.PositionOf(i)
		out = append(out, p)
	}
	return out
}

type solvingPolicy struct{}

func (solvingPolicy) isEditable(s State, i int) bool {
	return s.Grid.Cell(i) != grid.Block &&
		!s.Solve.VerifiedCells.Contains(i) &&
		!s.Solve.Success
}

func (solvingPolicy) postEdit(s State, i int) State {
	s.WrongCells = s.WrongCells.Without(i)
	if s.Solve.Autocheck {
		p, err := s.Grid.PositionOf(i)
		if err == nil {
			return cheatCells(s, []grid.Position{p}, false)
		}
	}
	return CheckComplete(s)
}

// ShowKeepTrying reports whether the "filled but not correct" prompt is due.
func (s State) ShowKeepTrying() bool {
	return s.Solve != nil && s.Solve.Filled && !s.Solve.Success && !s.Solve.DismissedKeepTrying
}

// ShowSuccess reports whether the success prompt is due.
func (s State) ShowSuccess() bool {
	return s.Solve != nil && s.Solve.Success && !s.Solve.DismissedSuccess
}

// internal/game/engine.go
//
// Transition: the single entry point of the interaction state machine.
// Responsibilities:
//   - Route an action through the generic grid-interface layer (cursor,
//     keypress grammar, rebus input, UI toggles).
//   - Hand whatever the generic layer does not handle to the mode layer
//     (cheats and solve toggles while solving; nothing extra while authoring).
//   - Consult the mode's editPolicy before and after every cell change.
//
// Notes:
//   - Transition is total. Unknown actions, out-of-range positions and edits
//     to non-editable cells return the input state.
//   - The input state is never changed; the result shares whatever it did
//     not need to replace.
package game

import (
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/crossword/internal/grid"
)

// editPolicy is the capability a mode layer supplies to the generic layer.
type editPolicy interface {
	// isEditable reports whether the cell at index i may change.
	isEditable(s State, i int) bool
	// postEdit runs after cell i changed and returns the refreshed state.
	postEdit(s State, i int) State
}

func (s State) policy() editPolicy {
	if s.Mode == Authoring {
		return builderPolicy{}
	}
	return solvingPolicy{}
}

// Transition applies a to s and returns the next state.
func Transition(s State, a Action) State {
	if s.Grid == nil || a == nil {
		return s
	}
	switch s.Mode {
	case Solving:
		if s.Solve == nil {
			return s
		}
		return puzzleReducer(s, a)
	case Authoring:
		if s.Build == nil {
			return s
		}
		next, _ := gridInterfaceReducer(s, a)
		return next
	default:
		return s
	}
}

// gridInterfaceReducer handles the actions shared by both modes. The bool
// reports whether a belongs to this layer.
func gridInterfaceReducer(s State, a Action) (State, bool) {
	switch act := a.(type) {
	case Keypress:
		return keypress(s, act), true
	case SetActive:
		if !s.Grid.InBounds(act.Active.Position) || !act.Active.Dir.Valid() {
			return s, true
		}
		s.Active = act.Active
		return s, true
	case SetActivePosition:
		if !s.Grid.InBounds(act.Position) {
			return s, true
		}
		s.Active.Position = act.Position
		return s, true
	case ClickedEntry:
		return clickedEntry(s, act.EntryIndex), true
	case ChangeDirection:
		s.Active.Dir = s.Active.Dir.Other()
		return s, true
	case ToggleKeyboard:
		s.ShowKeyboard = !s.ShowKeyboard
		return s, true
	case ToggleTablet:
		s.IsTablet = !s.IsTablet
		return s, true
	case Unrecognized:
		return s, true
	default:
		return s, false
	}
}

func clickedEntry(s State, index int) State {
	e, err := s.Grid.Entry(index)
	if err != nil {
		return s
	}
	target := e.Cells[0]
	for _, c := range e.Cells {
		if v, _ := s.Grid.ValAt(c); grid.IsBlank(v) {
			target = c
			break
		}
	}
	s.Active = grid.PosAndDir{Position: target, Dir: e.Direction}
	return s
}

func keypress(s State, k Keypress) State {
	key := k.Key
	if key == "{num}" || key == "{abc}" {
		s.ShowExtraKeyLayout = !s.ShowExtraKeyLayout
		return s
	}
	if s.IsEnteringRebus {
		return rebusKeypress(s, key)
	}

	switch {
	case key == "{rebus}" || key == "Escape":
		s.ShowExtraKeyLayout = false
		s.IsEnteringRebus = true
		s.RebusValue = ""
	case key == " " || key == "{dir}":
		s.Active.Dir = s.Active.Dir.Other()
	case key == "{prev}":
		s.Active = s.Grid.RetreatPosition(s.Active)
	case key == "{next}":
		s.Active = s.Grid.AdvancePosition(s.Active, s.WrongCells)
	case (key == "Tab" && !k.Shift) || key == "{nextEntry}":
		s.Active = s.Grid.MoveToNextEntry(s.Active)
	case (key == "Tab" && k.Shift) || key == "{prevEntry}":
		s.Active = s.Grid.MoveToPrevEntry(s.Active)
	case key == "ArrowRight":
		s.Active = grid.PosAndDir{Position: s.Grid.MoveRight(s.Active.Position), Dir: grid.Across}
	case key == "ArrowLeft":
		s.Active = grid.PosAndDir{Position: s.Grid.MoveLeft(s.Active.Position), Dir: grid.Across}
	case key == "ArrowUp":
		s.Active = grid.PosAndDir{Position: s.Grid.MoveUp(s.Active.Position), Dir: grid.Down}
	case key == "ArrowDown":
		s.Active = grid.PosAndDir{Position: s.Grid.MoveDown(s.Active.Position), Dir: grid.Down}
	case key == "." || key == "{block}":
		return toggleBlock(s)
	case isCellChar(key):
		s = editActive(s, strings.ToUpper(key))
		s.Active = s.Grid.AdvancePosition(s.Active, s.WrongCells)
	case key == "Backspace" || key == "{bksp}":
		s = editActive(s, grid.Blank)
		s.Active = s.Grid.RetreatPosition(s.Active)
	}
	return s
}

// rebusKeypress accumulates a multi-character value until Enter commits it
// or Escape discards it.
func rebusKeypress(s State, key string) State {
	switch {
	case isCellChar(key):
		s.RebusValue += strings.ToUpper(key)
	case key == "Backspace" || key == "{bksp}":
		if s.RebusValue != "" {
			_, size := utf8.DecodeLastRuneInString(s.RebusValue)
			s.RebusValue = s.RebusValue[:len(s.RebusValue)-size]
		}
	case key == "Enter":
		value := s.RebusValue
		s.IsEnteringRebus, s.RebusValue = false, ""
		if value != "" {
			s = editActive(s, value)
		}
		s.Active = s.Grid.AdvancePosition(s.Active, s.WrongCells)
	case key == "Escape":
		s.IsEnteringRebus, s.RebusValue = false, ""
	}
	return s
}

// editActive writes value into the cursor cell if the mode allows it.
func editActive(s State, value string) State {
	i, err := s.Grid.CellIndex(s.Active.Position)
	if err != nil {
		return s
	}
	p := s.policy()
	if !p.isEditable(s, i) {
		return s
	}
	g, err := s.Grid.WithNewChar(s.Active.Position, value)
	if err != nil {
		return s
	}
	s.Grid = g
	return p.postEdit(s, i)
}

func toggleBlock(s State) State {
	if s.Mode != Authoring || !s.Grid.AllowBlockEditing() {
		return s
	}
	i, err := s.Grid.CellIndex(s.Active.Position)
	if err != nil {
		return s
	}
	g, err := s.Grid.WithBlockToggled(s.Active.Position)
	if err != nil {
		return s
	}
	s.Grid = g
	return s.policy().postEdit(s, i)
}

// isCellChar matches a single ASCII letter or digit.
func isCellChar(key string) bool {
	if len(key) != 1 {
		return false
	}
	c := key[0]
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

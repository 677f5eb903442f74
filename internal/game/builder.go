// internal/game/builder.go
//
// Authoring mode: free editing plus grid validation after every change.
package game

import (
	"github.com/robalobadob/crossword/internal/collections"
	"github.com/robalobadob/crossword/internal/grid"
)

// NewBuilder starts an authoring session on g with block editing enabled.
func NewBuilder(g *grid.Grid) State {
	g = g.WithBlockEditing(true)
	s := State{
		Active:     grid.At(0, 0, grid.Across),
		Grid:       g,
		WrongCells: collections.NewSet[int](),
		Mode:       Authoring,
		Build:      &BuildState{},
	}
	return ValidateGrid(s)
}

// ValidateGrid recomputes the authoring flags: whether every cell is
// filled, which complete words appear more than once (in any direction),
// and whether any entry is shorter than three cells.
func ValidateGrid(s State) State {
	if s.Build == nil || s.Grid == nil {
		return s
	}
	g := s.Grid
	bs := BuildState{
		GridIsComplete:  true,
		Repeats:         collections.NewSet[string](),
		HasNoShortWords: true,
	}
	for i := 0; i < g.Len(); i++ {
		if grid.IsBlank(g.Cell(i)) {
			bs.GridIsComplete = false
			break
		}
	}

	seen := collections.NewSet[string]()
	for _, e := range g.Entries() {
		if len(e.Cells) <= 2 {
			bs.HasNoShortWords = false
		}
		if !e.IsComplete {
			continue
		}
		word, _ := g.EntryWord(e.Index)
		if seen.Contains(word) {
			bs.Repeats.Add(word)
		}
		seen.Add(word)
	}

	s.Build = &bs
	return s
}

type builderPolicy struct{}

func (builderPolicy) isEditable(State, int) bool { return true }

func (builderPolicy) postEdit(s State, _ int) State { return ValidateGrid(s) }

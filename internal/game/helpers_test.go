package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crossword/internal/grid"
)

// cellsOf flattens rows: '#' is a block, '_' a blank, anything else a
// single-letter value.
func cellsOf(rows ...string) []string {
	var out []string
	for _, row := range rows {
		for _, r := range row {
			switch r {
			case '#':
				out = append(out, grid.Block)
			case '_':
				out = append(out, grid.Blank)
			default:
				out = append(out, string(r))
			}
		}
	}
	return out
}

func newGrid(t *testing.T, rows ...string) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Config{Width: len(rows[0]), Height: len(rows), Cells: cellsOf(rows...)})
	require.NoError(t, err)
	return g
}

// newPuzzle starts a solving session with the grid pre-filled from fill.
func newPuzzle(t *testing.T, fill, answers []string) State {
	t.Helper()
	s, err := NewPuzzle(newGrid(t, fill...), cellsOf(answers...))
	require.NoError(t, err)
	return s
}

func press(s State, keys ...string) State {
	for _, k := range keys {
		s = Transition(s, Keypress{Key: k})
	}
	return s
}

func cellAt(t *testing.T, s State, row, col int) string {
	t.Helper()
	v, err := s.Grid.ValAt(grid.Position{Row: row, Col: col})
	require.NoError(t, err)
	return v
}

func moveTo(s State, row, col int) State {
	return Transition(s, SetActivePosition{Position: grid.Position{Row: row, Col: col}})
}

// melAnswers is a 3×3 with a center block: MEL / A#O / TEN.
var melAnswers = []string{"MEL", "A#O", "TEN"}

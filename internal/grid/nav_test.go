package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robalobadob/crossword/internal/collections"
)

func TestAdvancePosition_WithinEntry(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "___")

	got := g.AdvancePosition(At(0, 0, Across), nil)
	assert.Equal(t, At(0, 1, Across), got)

	got = g.AdvancePosition(At(0, 0, Down), nil)
	assert.Equal(t, At(1, 0, Down), got)
}

// TestAdvancePosition_SkipsFilledCells verifies filled cells are stepped over
// unless they are marked wrong.
func TestAdvancePosition_SkipsFilledCells(t *testing.T) {
	g := fromRows(t, false, "_B__")

	assert.Equal(t, At(0, 2, Across), g.AdvancePosition(At(0, 0, Across), nil))

	wrong := collections.NewSet(1)
	assert.Equal(t, At(0, 1, Across), g.AdvancePosition(At(0, 0, Across), wrong))
}

// TestAdvancePosition_WrapsInsideEntry verifies a blank earlier in the entry
// is preferred over a filled cell ahead.
func TestAdvancePosition_WrapsInsideEntry(t *testing.T) {
	g := fromRows(t, false, "_BCD")

	assert.Equal(t, At(0, 0, Across), g.AdvancePosition(At(0, 1, Across), nil))
}

// TestAdvancePosition_FullEntryStepsForward verifies a complete entry still
// moves one cell ahead.
func TestAdvancePosition_FullEntryStepsForward(t *testing.T) {
	g := fromRows(t, false, "ABCD")

	assert.Equal(t, At(0, 2, Across), g.AdvancePosition(At(0, 1, Across), nil))
}

// TestAdvancePosition_LastCellWrapsToBlank verifies the last cell returns to
// a blank earlier in its entry instead of leaving it.
func TestAdvancePosition_LastCellWrapsToBlank(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "___")

	assert.Equal(t, At(0, 0, Across), g.AdvancePosition(At(0, 2, Across), nil))
	assert.Equal(t, At(0, 2, Down), g.AdvancePosition(At(2, 2, Down), nil))

	filled := fromRows(t, false, "AB_", "_#_", "___")
	assert.Equal(t, At(0, 2, Across), filled.AdvancePosition(At(0, 1, Across), nil))
	wrong := collections.NewSet(0)
	assert.Equal(t, At(0, 0, Across), filled.AdvancePosition(At(0, 2, Across), wrong))
}

// TestAdvancePosition_LastCellJumpsToNextEntry verifies the jump to the next
// entry in clue order once the entry is full, including the Across → Down
// and Down → Across wraps.
func TestAdvancePosition_LastCellJumpsToNextEntry(t *testing.T) {
	g := fromRows(t, false, "ABC", "_#_", "___")
	assert.Equal(t, At(2, 0, Across), g.AdvancePosition(At(0, 2, Across), nil))

	g = fromRows(t, false, "___", "_#_", "ABC")
	assert.Equal(t, At(0, 0, Down), g.AdvancePosition(At(2, 2, Across), nil))

	g = fromRows(t, false, "__A", "_#B", "__C")
	assert.Equal(t, At(0, 0, Across), g.AdvancePosition(At(2, 2, Down), nil))
}

// TestAdvanceThenRetreat_ReturnsToStart verifies retreat undoes advance from
// every cell of a blank grid short of an entry's last.
func TestAdvanceThenRetreat_ReturnsToStart(t *testing.T) {
	for _, rows := range [][]string{
		{"___", "_#_", "___"},
		{"_____", "_____", "_____", "_____", "_____"},
		{"__#__", "_____", "#___#"},
	} {
		g := fromRows(t, false, rows...)
		for i := 0; i < g.Len(); i++ {
			p, _ := g.PositionOf(i)
			for _, dir := range []Direction{Across, Down} {
				start := PosAndDir{Position: p, Dir: dir}
				e, idx, _ := g.EntryAtPosition(start)
				if e == nil || idx == len(e.Cells)-1 {
					continue
				}
				forward := g.AdvancePosition(start, nil)
				assert.Equal(t, start, g.RetreatPosition(forward), "grid %v from %v", rows, start)
			}
		}
	}
}

func TestRetreatPosition(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "___")

	assert.Equal(t, At(0, 1, Across), g.RetreatPosition(At(0, 2, Across)))
	assert.Equal(t, At(0, 2, Across), g.RetreatPosition(At(2, 0, Across)))
	assert.Equal(t, At(2, 2, Down), g.RetreatPosition(At(0, 0, Across)))
}

// TestAdvancePosition_NoEntry verifies cursors outside any entry stay put.
func TestAdvancePosition_NoEntry(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "___")

	assert.Equal(t, At(0, 1, Down), g.AdvancePosition(At(0, 1, Down), nil))
	assert.Equal(t, At(1, 1, Across), g.RetreatPosition(At(1, 1, Across)))
	assert.Equal(t, At(7, 7, Across), g.AdvancePosition(At(7, 7, Across), nil))
}

func TestMoveToNextEntry_SkipsCompleteEntries(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "ABC")

	assert.Equal(t, At(0, 0, Down), g.MoveToNextEntry(At(0, 1, Across)))
}

func TestMoveToNextEntry_LandsOnFirstBlank(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "A_C")

	assert.Equal(t, At(2, 1, Across), g.MoveToNextEntry(At(0, 0, Across)))
}

func TestMoveToPrevEntry(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "___")

	assert.Equal(t, At(0, 2, Down), g.MoveToPrevEntry(At(0, 0, Across)))
	assert.Equal(t, At(0, 0, Across), g.MoveToPrevEntry(At(2, 1, Across)))
}

// TestMoveToNextEntry_AllComplete verifies a full grid still moves to the
// next entry's first cell.
func TestMoveToNextEntry_AllComplete(t *testing.T) {
	g := fromRows(t, false, "ABC", "D#E", "FGH")

	assert.Equal(t, At(2, 0, Across), g.MoveToNextEntry(At(0, 1, Across)))
	assert.Equal(t, At(0, 2, Down), g.MoveToPrevEntry(At(0, 1, Across)))
}

// TestMoveToNextEntry_FromOutsideEntries verifies a cursor on a block or a
// lone cell still finds an entry.
func TestMoveToNextEntry_FromOutsideEntries(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "___")

	assert.Equal(t, At(0, 0, Across), g.MoveToNextEntry(At(1, 1, Across)))
	assert.Equal(t, At(0, 2, Down), g.MoveToPrevEntry(At(1, 1, Across)))
	// (0,1) is only in 1A; Down falls back to it.
	assert.Equal(t, At(2, 0, Across), g.MoveToNextEntry(At(0, 1, Down)))
}

func TestArrowMoves_SkipBlocksWhenSolving(t *testing.T) {
	g := fromRows(t, false, "___", "_#_", "___")

	assert.Equal(t, pos(1, 2), g.MoveRight(pos(1, 0)))
	assert.Equal(t, pos(1, 0), g.MoveLeft(pos(1, 2)))
	assert.Equal(t, pos(2, 1), g.MoveDown(pos(0, 1)))
	assert.Equal(t, pos(0, 1), g.MoveUp(pos(2, 1)))
	assert.Equal(t, pos(0, 0), g.MoveLeft(pos(0, 0)))
	assert.Equal(t, pos(0, 0), g.MoveUp(pos(0, 0)))
	assert.Equal(t, pos(2, 2), g.MoveRight(pos(2, 2)))
	assert.Equal(t, pos(2, 2), g.MoveDown(pos(2, 2)))
}

func TestArrowMoves_LandOnBlocksWhenAuthoring(t *testing.T) {
	g := fromRows(t, true, "___", "_#_", "___")

	assert.Equal(t, pos(1, 1), g.MoveRight(pos(1, 0)))
	assert.Equal(t, pos(1, 1), g.MoveDown(pos(0, 1)))
}

// TestArrowMoves_OnlyBlocksAhead verifies the cursor stays when nothing but
// blocks lie in the direction of travel.
func TestArrowMoves_OnlyBlocksAhead(t *testing.T) {
	g := fromRows(t, false, "#A##")

	assert.Equal(t, pos(0, 1), g.MoveRight(pos(0, 1)))
	assert.Equal(t, pos(0, 1), g.MoveLeft(pos(0, 1)))
}

func TestNextNonBlock(t *testing.T) {
	g := fromRows(t, false, "##A", "B##")

	assert.Equal(t, pos(0, 2), g.NextNonBlock(pos(0, 0)))
	assert.Equal(t, pos(1, 0), g.NextNonBlock(pos(1, 0)))
	assert.Equal(t, pos(0, 2), g.NextNonBlock(pos(1, 1)), "wraps to the top")

	blocks := fromRows(t, false, "##", "##")
	assert.Equal(t, pos(1, 1), blocks.NextNonBlock(pos(1, 1)))
}

// TestNavigation_DegenerateGrids verifies every movement terminates on a 1×1
// grid and on an all-block grid.
func TestNavigation_DegenerateGrids(t *testing.T) {
	for _, g := range []*Grid{
		fromRows(t, false, "_"),
		fromRows(t, false, "###", "###"),
		fromRows(t, true, "###"),
	} {
		start := At(0, 0, Across)
		assert.Equal(t, start, g.AdvancePosition(start, nil))
		assert.Equal(t, start, g.RetreatPosition(start))
		assert.Equal(t, start, g.MoveToNextEntry(start))
		assert.Equal(t, start, g.MoveToPrevEntry(start))
		assert.Equal(t, pos(0, 0), g.NextNonBlock(pos(0, 0)))
		g.MoveRight(pos(0, 0))
		g.MoveDown(pos(0, 0))
	}
}

// internal/grid/nav.go
//
// Cursor movement over a grid. All functions are pure and total: an
// out-of-range or otherwise unusable cursor comes back unchanged, and every
// loop is bounded by one pass over the cells or entries.
//
// Skip policy for Advance: the cursor moves to the next cell of the active
// entry that is blank or listed in wrong (wrapping inside the entry), so
// correctly filled cells are stepped over. Only when the rest of the entry
// needs nothing does the last cell jump to the next entry.

package grid

import "github.com/robalobadob/crossword/internal/collections"

// AdvancePosition moves the cursor to the next cell of its entry that still
// needs a value, or to the next entry once the entry is used up.
func (g *Grid) AdvancePosition(pd PosAndDir, wrong collections.Set[int]) PosAndDir {
	ei, index, ok := g.entryRef(pd)
	if !ok {
		return pd
	}
	entry := &g.entries[ei]
	n := len(entry.Cells)
	for offset := 1; offset < n; offset++ {
		cell := entry.Cells[(index+offset)%n]
		if g.needsFill(cell, wrong) {
			return PosAndDir{Position: cell, Dir: pd.Dir}
		}
	}
	if index == n-1 {
		return g.MoveToNextEntry(pd)
	}
	return PosAndDir{Position: entry.Cells[index+1], Dir: pd.Dir}
}

// RetreatPosition moves the cursor one cell back within its entry, or to
// the last cell of the previous entry from the entry's first cell.
func (g *Grid) RetreatPosition(pd PosAndDir) PosAndDir {
	ei, index, ok := g.entryRef(pd)
	if !ok {
		return pd
	}
	if index > 0 {
		return PosAndDir{Position: g.entries[ei].Cells[index-1], Dir: pd.Dir}
	}
	prev := &g.entries[wrapIndex(ei-1, len(g.entries))]
	return PosAndDir{Position: prev.Cells[len(prev.Cells)-1], Dir: prev.Direction}
}

// MoveToNextEntry jumps to the first blank cell of the next incomplete entry
// in clue order, wrapping from the last Down entry to the first Across one.
// When every entry is complete it lands on the first cell of the next entry.
func (g *Grid) MoveToNextEntry(pd PosAndDir) PosAndDir {
	return g.moveToEntry(pd, 1)
}

// MoveToPrevEntry is MoveToNextEntry in reverse clue order.
func (g *Grid) MoveToPrevEntry(pd PosAndDir) PosAndDir {
	return g.moveToEntry(pd, -1)
}

func (g *Grid) moveToEntry(pd PosAndDir, step int) PosAndDir {
	n := len(g.entries)
	if n == 0 || !g.InBounds(pd.Position) {
		return pd
	}
	start, ok := g.currentEntry(pd)
	if !ok {
		// Not inside any entry: walk from just before the first entry (or
		// just after the last one when going backwards).
		start = -1
		if step < 0 {
			start = n
		}
	}
	for offset := 1; offset <= n; offset++ {
		e := &g.entries[wrapIndex(start+step*offset, n)]
		if e.IsComplete {
			continue
		}
		for _, c := range e.Cells {
			if IsBlank(g.cells[g.idx(c)]) {
				return PosAndDir{Position: c, Dir: e.Direction}
			}
		}
	}
	e := &g.entries[wrapIndex(start+step, n)]
	return PosAndDir{Position: e.Cells[0], Dir: e.Direction}
}

// currentEntry prefers the entry in the cursor's direction and falls back to
// the perpendicular one.
func (g *Grid) currentEntry(pd PosAndDir) (int, bool) {
	if ei, _, ok := g.entryRef(pd); ok {
		return ei, true
	}
	if pd.Dir.Valid() {
		if ei, _, ok := g.entryRef(PosAndDir{Position: pd.Position, Dir: pd.Dir.Other()}); ok {
			return ei, true
		}
	}
	return 0, false
}

// MoveUp, MoveDown, MoveLeft and MoveRight step one cell along an axis. In
// authoring grids they may land on blocks; otherwise blocks are stepped over.
// At the edge (or with only blocks ahead) the position is unchanged.
func (g *Grid) MoveUp(pos Position) Position    { return g.step(pos, -1, 0) }
func (g *Grid) MoveDown(pos Position) Position  { return g.step(pos, 1, 0) }
func (g *Grid) MoveLeft(pos Position) Position  { return g.step(pos, 0, -1) }
func (g *Grid) MoveRight(pos Position) Position { return g.step(pos, 0, 1) }

func (g *Grid) step(pos Position, dRow, dCol int) Position {
	if !g.InBounds(pos) {
		return pos
	}
	next := pos
	for {
		next = Position{Row: next.Row + dRow, Col: next.Col + dCol}
		if !g.InBounds(next) {
			return pos
		}
		if g.allowBlockEditing || g.cells[g.idx(next)] != Block {
			return next
		}
	}
}

// NextNonBlock returns the first non-block cell scanning row-major from pos
// (inclusive), wrapping around. An all-block grid returns pos.
func (g *Grid) NextNonBlock(pos Position) Position {
	if !g.InBounds(pos) {
		return pos
	}
	n := len(g.cells)
	start := g.idx(pos)
	for offset := 0; offset < n; offset++ {
		i := (start + offset) % n
		if g.cells[i] != Block {
			return g.pos(i)
		}
	}
	return pos
}

func (g *Grid) entryRef(pd PosAndDir) (entry, index int, ok bool) {
	if !g.InBounds(pd.Position) || !pd.Dir.Valid() {
		return 0, 0, false
	}
	ce := g.byCell[g.idx(pd.Position)][pd.Dir]
	if ce.entry < 0 {
		return 0, 0, false
	}
	return ce.entry, ce.index, true
}

func (g *Grid) needsFill(pos Position, wrong collections.Set[int]) bool {
	i := g.idx(pos)
	return IsBlank(g.cells[i]) || wrong.Contains(i)
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// internal/grid/grid.go
//
// Immutable rectangular crossword grid.
// Responsibilities:
//   - Hold W×H cell values (row-major) plus highlight annotations.
//   - Derive entries and clue numbering from block placement.
//   - Produce modified copies (new cell value, toggled block); the receiver
//     is never changed, so old versions stay valid for any reader.
//
// Numbering: scanning row-major, a non-block cell gets the next number if it
// starts an Across entry (left edge or block to its left, and a non-block to
// its right) or a Down entry (same rule vertically). Entries are ordered
// Across by number, then Down by number; navigation relies on that order.

package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robalobadob/crossword/internal/collections"
)

// Config describes a grid to build.
type Config struct {
	Width, Height int
	// Cells is row-major; "" is normalized to Blank.
	Cells             []string
	AllowBlockEditing bool
	Highlighted       []int
	Highlight         HighlightStyle
}

// Grid is an immutable crossword grid. The zero value is not usable; build
// one with New or NewBlank.
type Grid struct {
	width, height     int
	cells             []string
	allowBlockEditing bool
	highlighted       collections.Set[int]
	highlight         HighlightStyle

	entries []Entry
	byCell  [][2]cellEntry
	labels  []int
}

// cellEntry locates a cell inside an entry; entry is -1 when the cell belongs
// to no entry in that direction.
type cellEntry struct {
	entry int
	index int
}

// New validates cfg and derives entries and numbering.
func New(cfg Config) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || len(cfg.Cells) != cfg.Width*cfg.Height {
		return nil, fmt.Errorf("%w: %dx%d with %d cells", ErrBadDimensions, cfg.Width, cfg.Height, len(cfg.Cells))
	}
	g := &Grid{
		width:             cfg.Width,
		height:            cfg.Height,
		cells:             make([]string, len(cfg.Cells)),
		allowBlockEditing: cfg.AllowBlockEditing,
		highlighted:       collections.NewSet[int](),
		highlight:         cfg.Highlight,
	}
	for i, v := range cfg.Cells {
		g.cells[i] = normalize(v)
	}
	for _, h := range cfg.Highlighted {
		if h < 0 || h >= len(g.cells) {
			return nil, fmt.Errorf("%w: highlighted cell %d", ErrOutOfRange, h)
		}
		g.highlighted.Add(h)
	}
	g.derive()
	return g, nil
}

// NewBlank builds an all-blank grid.
func NewBlank(width, height int, allowBlockEditing bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	cells := make([]string, width*height)
	for i := range cells {
		cells[i] = Blank
	}
	return New(Config{Width: width, Height: height, Cells: cells, AllowBlockEditing: allowBlockEditing})
}

func normalize(v string) string {
	if v == "" {
		return Blank
	}
	return v
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Len is the number of cells, W×H.
func (g *Grid) Len() int { return len(g.cells) }

// AllowBlockEditing reports whether blocks may be toggled (authoring only).
func (g *Grid) AllowBlockEditing() bool { return g.allowBlockEditing }

func (g *Grid) Highlight() HighlightStyle { return g.highlight }

// IsHighlighted reports whether cell index i carries a highlight.
func (g *Grid) IsHighlighted(i int) bool { return g.highlighted.Contains(i) }

// Highlighted returns the highlighted cell indices in ascending order.
func (g *Grid) Highlighted() []int { return collections.Sorted(g.highlighted) }

// Cells returns a copy of the row-major cell values.
func (g *Grid) Cells() []string { return slices.Clone(g.cells) }

// Cell returns the value at linear index i, or Block when i is out of range.
func (g *Grid) Cell(i int) string {
	if i < 0 || i >= len(g.cells) {
		return Block
	}
	return g.cells[i]
}

// CellIndex linearizes pos row-major.
func (g *Grid) CellIndex(pos Position) (int, error) {
	if !g.InBounds(pos) {
		return 0, fmt.Errorf("%w: %v in %dx%d grid", ErrOutOfRange, pos, g.width, g.height)
	}
	return g.idx(pos), nil
}

// PositionOf decodes a linear index back into (row, col).
func (g *Grid) PositionOf(i int) (Position, error) {
	if i < 0 || i >= len(g.cells) {
		return Position{}, fmt.Errorf("%w: cell %d in %dx%d grid", ErrOutOfRange, i, g.width, g.height)
	}
	return g.pos(i), nil
}

// InBounds reports whether pos lies inside the grid.
func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.height && pos.Col >= 0 && pos.Col < g.width
}

// ValAt returns the value at pos.
func (g *Grid) ValAt(pos Position) (string, error) {
	i, err := g.CellIndex(pos)
	if err != nil {
		return "", err
	}
	return g.cells[i], nil
}

// NumberAt returns the clue number printed in the cell at linear index i,
// or 0 if none.
func (g *Grid) NumberAt(i int) int {
	if i < 0 || i >= len(g.labels) {
		return 0
	}
	return g.labels[i]
}

// Entries returns copies of all entries, Across by number then Down by number.
func (g *Grid) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.clone()
	}
	return out
}

// NumEntries returns the number of derived entries.
func (g *Grid) NumEntries() int { return len(g.entries) }

// Entry returns a copy of entry i.
func (g *Grid) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(g.entries) {
		return Entry{}, fmt.Errorf("%w: entry %d of %d", ErrOutOfRange, i, len(g.entries))
	}
	return g.entries[i].clone(), nil
}

// EntryAtPosition returns the entry running through pd in pd.Dir and the
// cell's index within it. The entry is nil when the cell belongs to no entry
// in that direction (blocks, or runs of length 1).
func (g *Grid) EntryAtPosition(pd PosAndDir) (*Entry, int, error) {
	if _, err := g.CellIndex(pd.Position); err != nil {
		return nil, 0, err
	}
	if !pd.Dir.Valid() {
		return nil, 0, nil
	}
	ce := g.byCell[g.idx(pd.Position)][pd.Dir]
	if ce.entry < 0 {
		return nil, 0, nil
	}
	e := g.entries[ce.entry].clone()
	return &e, ce.index, nil
}

// EntryWord concatenates the cell values along entry i. Rebus cells
// contribute their full string.
func (g *Grid) EntryWord(i int) (string, error) {
	if i < 0 || i >= len(g.entries) {
		return "", fmt.Errorf("%w: entry %d of %d", ErrOutOfRange, i, len(g.entries))
	}
	return g.entryWord(i), nil
}

func (g *Grid) entryWord(i int) string {
	var b strings.Builder
	for _, c := range g.entries[i].Cells {
		b.WriteString(g.cells[g.idx(c)])
	}
	return b.String()
}

// WithNewChar returns a grid whose cell at pos holds value. Entries are kept
// as-is (only completeness of the touched entries is refreshed) unless the
// change adds or removes a block.
func (g *Grid) WithNewChar(pos Position, value string) (*Grid, error) {
	i, err := g.CellIndex(pos)
	if err != nil {
		return nil, err
	}
	value = normalize(value)
	old := g.cells[i]
	if old == value {
		return g, nil
	}
	next := g.clone()
	next.cells[i] = value
	if old == Block || value == Block {
		next.derive()
		return next, nil
	}
	next.entries = slices.Clone(g.entries)
	for _, ce := range g.byCell[i] {
		if ce.entry >= 0 {
			next.entries[ce.entry].IsComplete = next.entryComplete(ce.entry)
		}
	}
	return next, nil
}

// WithBlockToggled flips the cell at pos between Block and Blank and
// re-derives entries. Callers check AllowBlockEditing first.
func (g *Grid) WithBlockToggled(pos Position) (*Grid, error) {
	i, err := g.CellIndex(pos)
	if err != nil {
		return nil, err
	}
	next := g.clone()
	if g.cells[i] == Block {
		next.cells[i] = Blank
	} else {
		next.cells[i] = Block
	}
	next.derive()
	return next, nil
}

// WithBlockEditing returns a copy with the block-editing flag set to allow.
func (g *Grid) WithBlockEditing(allow bool) *Grid {
	if g.allowBlockEditing == allow {
		return g
	}
	next := g.clone()
	next.allowBlockEditing = allow
	return next
}

// SameLayout reports whether both grids have the same dimensions and block
// placement.
func (g *Grid) SameLayout(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i, v := range g.cells {
		if (v == Block) != (other.cells[i] == Block) {
			return false
		}
	}
	return true
}

// String renders the grid one row per line, blocks as '#', blanks as '_'
// and rebus cells in brackets.
func (g *Grid) String() string {
	var b strings.Builder
	for i, v := range g.cells {
		if i > 0 && i%g.width == 0 {
			b.WriteByte('\n')
		}
		switch {
		case v == Block:
			b.WriteByte('#')
		case IsBlank(v):
			b.WriteByte('_')
		case len([]rune(v)) > 1:
			b.WriteString("[" + v + "]")
		default:
			b.WriteString(v)
		}
	}
	return b.String()
}

// clone copies the mutable-by-construction parts; derived tables are shared
// until derive replaces them.
func (g *Grid) clone() *Grid {
	next := *g
	next.cells = slices.Clone(g.cells)
	return &next
}

func (g *Grid) idx(pos Position) int { return pos.Row*g.width + pos.Col }

func (g *Grid) pos(i int) Position { return Position{Row: i / g.width, Col: i % g.width} }

func (g *Grid) isBlock(row, col int) bool {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return true
	}
	return g.cells[row*g.width+col] == Block
}

// startsEntry reports whether (row, col) begins an entry in dir.
func (g *Grid) startsEntry(row, col int, dir Direction) bool {
	if g.isBlock(row, col) {
		return false
	}
	if dir == Across {
		return g.isBlock(row, col-1) && !g.isBlock(row, col+1)
	}
	return g.isBlock(row-1, col) && !g.isBlock(row+1, col)
}

// derive rebuilds numbering, entries and the per-cell lookup table from the
// block layout.
func (g *Grid) derive() {
	n := len(g.cells)
	g.labels = make([]int, n)
	g.byCell = make([][2]cellEntry, n)
	for i := range g.byCell {
		g.byCell[i] = [2]cellEntry{{entry: -1}, {entry: -1}}
	}

	number := 0
	for i := 0; i < n; i++ {
		p := g.pos(i)
		if g.startsEntry(p.Row, p.Col, Across) || g.startsEntry(p.Row, p.Col, Down) {
			number++
			g.labels[i] = number
		}
	}

	g.entries = nil
	for _, dir := range []Direction{Across, Down} {
		dRow, dCol := 0, 1
		if dir == Down {
			dRow, dCol = 1, 0
		}
		for i := 0; i < n; i++ {
			start := g.pos(i)
			if !g.startsEntry(start.Row, start.Col, dir) {
				continue
			}
			entryIdx := len(g.entries)
			var cells []Position
			for p := start; !g.isBlock(p.Row, p.Col); p = (Position{Row: p.Row + dRow, Col: p.Col + dCol}) {
				g.byCell[g.idx(p)][dir] = cellEntry{entry: entryIdx, index: len(cells)}
				cells = append(cells, p)
			}
			g.entries = append(g.entries, Entry{
				Index:     entryIdx,
				Number:    g.labels[i],
				Direction: dir,
				Cells:     cells,
			})
		}
	}
	for i := range g.entries {
		g.entries[i].IsComplete = g.entryComplete(i)
	}
}

func (g *Grid) entryComplete(i int) bool {
	for _, c := range g.entries[i].Cells {
		if IsBlank(g.cells[g.idx(c)]) {
			return false
		}
	}
	return true
}

func (e Entry) clone() Entry {
	e.Cells = slices.Clone(e.Cells)
	return e
}

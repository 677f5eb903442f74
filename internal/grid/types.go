// internal/grid/types.go
//
// Core value types shared by the grid model and the interaction engine:
//   - Direction: Across or Down.
//   - Position / PosAndDir: 0-indexed (row, col) coordinates, with an
//     optional direction.
//   - Entry: a maximal run of non-block cells (length ≥ 2) in one direction.
//   - HighlightStyle: how highlighted cells are drawn (circle or shade).

package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Blank is the sentinel value of an empty cell.
	Blank = " "
	// Block is the sentinel value of an impassable (black) cell.
	Block = "."
)

// ErrOutOfRange is returned by position- and index-addressed operations when
// the argument lies outside the grid. It always signals a caller bug.
var ErrOutOfRange = errors.New("grid: position out of range")

// ErrBadDimensions is returned by New when the cell count does not match
// width × height or either dimension is not positive.
var ErrBadDimensions = errors.New("grid: cell count does not match dimensions")

// Direction is the axis an entry or the cursor runs along.
type Direction int

const (
	Across Direction = iota
	Down
)

// Other returns the perpendicular direction.
func (d Direction) Other() Direction {
	if d == Across {
		return Down
	}
	return Across
}

// Valid reports whether d is Across or Down.
func (d Direction) Valid() bool {
	return d == Across || d == Down
}

func (d Direction) String() string {
	switch d {
	case Across:
		return "across"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection converts "across"/"down" (case-insensitive, "a"/"d"
// accepted) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "across", "a":
		return Across, nil
	case "down", "d":
		return Down, nil
	default:
		return Across, fmt.Errorf("unknown direction: %q", s)
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Position is a 0-indexed (row, col) coordinate.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// PosAndDir is a cursor: a position plus the direction of travel.
type PosAndDir struct {
	Position `yaml:",inline"`
	Dir      Direction `json:"dir" yaml:"dir"`
}

// At is shorthand for building a PosAndDir.
func At(row, col int, dir Direction) PosAndDir {
	return PosAndDir{Position: Position{Row: row, Col: col}, Dir: dir}
}

// HighlightStyle selects how highlighted cells are rendered.
type HighlightStyle int

const (
	Circle HighlightStyle = iota
	Shade
)

func (h HighlightStyle) String() string {
	if h == Shade {
		return "shade"
	}
	return "circle"
}

// ParseHighlight converts "circle"/"shade" to a HighlightStyle; empty means
// Circle.
func ParseHighlight(s string) (HighlightStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "circle":
		return Circle, nil
	case "shade":
		return Shade, nil
	default:
		return Circle, fmt.Errorf("unknown highlight style: %q", s)
	}
}

// Entry is a maximal run of non-block cells in one direction, the unit clues
// refer to. Cells must be treated as read-only.
type Entry struct {
	Index      int        `json:"index"`
	Number     int        `json:"number"`
	Direction  Direction  `json:"direction"`
	Cells      []Position `json:"cells"`
	IsComplete bool       `json:"isComplete"`
}

// Label is the conventional clue label, e.g. "12A".
func (e Entry) Label() string {
	if e.Direction == Down {
		return fmt.Sprintf("%dD", e.Number)
	}
	return fmt.Sprintf("%dA", e.Number)
}

// IsBlank reports whether a cell value counts as empty.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

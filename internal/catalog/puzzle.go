// internal/catalog/puzzle.go
//
// Puzzle definitions as stored on disk (YAML) and their conversion into
// engine values.
//
// File shape:
//
//	id: tap
//	title: Tap Room
//	author: Crossword Team
//	highlight: circle          # or shade
//	highlighted: [{row: 0, col: 0}]
//	grid: [TAP, "H#A", END]    # '#' is a block, letters/digits are answers
//	rebus: [{row: 0, col: 0, value: ST}]
//	clues: {across: {1: Faucet}, down: {1: Definite article}}
//
// Every row must have the same width; rebus overrides must target non-block
// cells.

package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/grid"
)

var (
	// ErrInvalidPuzzle is returned for definitions that cannot form a grid.
	ErrInvalidPuzzle = errors.New("catalog: invalid puzzle")
	// ErrUnknownPuzzle is returned by Get for ids not in the catalog.
	ErrUnknownPuzzle = errors.New("catalog: unknown puzzle")
)

// RebusCell overrides one answer with a multi-character value.
type RebusCell struct {
	Row   int    `yaml:"row" json:"row"`
	Col   int    `yaml:"col" json:"col"`
	Value string `yaml:"value" json:"value"`
}

// Clues maps clue numbers to clue text per direction.
type Clues struct {
	Across map[int]string `yaml:"across" json:"across"`
	Down   map[int]string `yaml:"down" json:"down"`
}

// Puzzle is one catalog entry.
type Puzzle struct {
	ID          string          `yaml:"id" json:"id"`
	Title       string          `yaml:"title" json:"title"`
	Author      string          `yaml:"author,omitempty" json:"author,omitempty"`
	Highlight   string          `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	Highlighted []grid.Position `yaml:"highlighted,omitempty" json:"highlighted,omitempty"`
	Rows        []string        `yaml:"grid" json:"-"`
	Rebus       []RebusCell     `yaml:"rebus,omitempty" json:"-"`
	Clues       Clues           `yaml:"clues" json:"clues"`
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Puzzle, error) {
	var p Puzzle
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseFile reads and parses a definition from disk.
func ParseFile(path string) (*Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Puzzle) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPuzzle)
	}
	if len(p.Rows) == 0 {
		return fmt.Errorf("%w: %s has no grid", ErrInvalidPuzzle, p.ID)
	}
	width := len([]rune(p.Rows[0]))
	if width == 0 {
		return fmt.Errorf("%w: %s has an empty first row", ErrInvalidPuzzle, p.ID)
	}
	for i, row := range p.Rows {
		runes := []rune(row)
		if len(runes) != width {
			return fmt.Errorf("%w: %s row %d has width %d, want %d", ErrInvalidPuzzle, p.ID, i, len(runes), width)
		}
		for _, r := range runes {
			if r != '#' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Errorf("%w: %s row %d has invalid cell %q", ErrInvalidPuzzle, p.ID, i, r)
			}
		}
	}
	if _, err := grid.ParseHighlight(p.Highlight); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPuzzle, p.ID, err)
	}
	for _, h := range p.Highlighted {
		if !p.inBounds(h.Row, h.Col) {
			return fmt.Errorf("%w: %s highlights %v outside the grid", ErrInvalidPuzzle, p.ID, h)
		}
	}
	for _, rc := range p.Rebus {
		if !p.inBounds(rc.Row, rc.Col) || []rune(p.Rows[rc.Row])[rc.Col] == '#' {
			return fmt.Errorf("%w: %s rebus at (%d, %d) is not an open cell", ErrInvalidPuzzle, p.ID, rc.Row, rc.Col)
		}
		if strings.TrimSpace(rc.Value) == "" {
			return fmt.Errorf("%w: %s rebus at (%d, %d) is empty", ErrInvalidPuzzle, p.ID, rc.Row, rc.Col)
		}
	}
	return nil
}

func (p *Puzzle) inBounds(row, col int) bool {
	return row >= 0 && row < p.Height() && col >= 0 && col < p.Width()
}

func (p *Puzzle) Width() int  { return len([]rune(p.Rows[0])) }
func (p *Puzzle) Height() int { return len(p.Rows) }

// Answers returns the answer key, row-major, one value per cell.
func (p *Puzzle) Answers() []string {
	out := make([]string, 0, p.Width()*p.Height())
	for _, row := range p.Rows {
		for _, r := range row {
			if r == '#' {
				out = append(out, grid.Block)
			} else {
				out = append(out, strings.ToUpper(string(r)))
			}
		}
	}
	for _, rc := range p.Rebus {
		out[rc.Row*p.Width()+rc.Col] = strings.ToUpper(rc.Value)
	}
	return out
}

// Grid returns the empty playing grid: blocks from the definition, every
// other cell blank.
func (p *Puzzle) Grid() (*grid.Grid, error) {
	answers := p.Answers()
	cells := make([]string, len(answers))
	for i, a := range answers {
		if a == grid.Block {
			cells[i] = grid.Block
		} else {
			cells[i] = grid.Blank
		}
	}
	return p.gridOf(cells)
}

// FilledGrid returns the grid with every answer written in.
func (p *Puzzle) FilledGrid() (*grid.Grid, error) {
	return p.gridOf(p.Answers())
}

func (p *Puzzle) gridOf(cells []string) (*grid.Grid, error) {
	highlight, _ := grid.ParseHighlight(p.Highlight)
	highlighted := make([]int, 0, len(p.Highlighted))
	for _, h := range p.Highlighted {
		highlighted = append(highlighted, h.Row*p.Width()+h.Col)
	}
	return grid.New(grid.Config{
		Width:       p.Width(),
		Height:      p.Height(),
		Cells:       cells,
		Highlighted: highlighted,
		Highlight:   highlight,
	})
}

// NewSession starts a solving session on an empty copy of the puzzle.
func (p *Puzzle) NewSession() (game.State, error) {
	g, err := p.Grid()
	if err != nil {
		return game.State{}, err
	}
	return game.NewPuzzle(g, p.Answers())
}

// Validate runs the authoring checks over the filled-in puzzle.
func (p *Puzzle) Validate() (game.BuildState, error) {
	g, err := p.FilledGrid()
	if err != nil {
		return game.BuildState{}, err
	}
	return *game.NewBuilder(g).Build, nil
}

// Clue returns the clue text for an entry, or "" if the definition has none.
func (p *Puzzle) Clue(e grid.Entry) string {
	if e.Direction == grid.Down {
		return p.Clues.Down[e.Number]
	}
	return p.Clues.Across[e.Number]
}

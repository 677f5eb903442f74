package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crossword/assets"
	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/grid"
)

const tapYAML = `
id: tap
title: Tap Room
highlighted: [{row: 0, col: 0}]
grid:
  - TAP
  - "H#A"
  - END
clues:
  across: {1: Faucet, 3: Finish line}
  down: {1: Definite article, 2: Apartment}
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(tapYAML))
	require.NoError(t, err)

	assert.Equal(t, "tap", p.ID)
	assert.Equal(t, 3, p.Width())
	assert.Equal(t, 3, p.Height())
	assert.Equal(t, []string{"T", "A", "P", "H", grid.Block, "A", "E", "N", "D"}, p.Answers())

	g, err := p.Grid()
	require.NoError(t, err)
	assert.Equal(t, "___\n_#_\n___", g.String())
	assert.True(t, g.IsHighlighted(0))

	entries := g.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "Faucet", p.Clue(entries[0]))
	assert.Equal(t, "Finish line", p.Clue(entries[1]))
	assert.Equal(t, "Apartment", p.Clue(entries[3]))
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"not yaml":       "grid: [",
		"no id":          "grid: [AB]",
		"no grid":        "id: x",
		"ragged":         "id: x\ngrid: [ABC, AB]",
		"bad cell":       "id: x\ngrid: [A_C]",
		"bad highlight":  "id: x\nhighlight: glow\ngrid: [AB]",
		"highlight oob":  "id: x\nhighlighted: [{row: 3, col: 0}]\ngrid: [AB]",
		"rebus on block": "id: x\ngrid: ['A#']\nrebus: [{row: 0, col: 1, value: QU}]",
		"empty rebus":    "id: x\ngrid: [AB]\nrebus: [{row: 0, col: 1, value: ''}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidPuzzle)
		})
	}
}

func TestPuzzle_RebusAnswers(t *testing.T) {
	p, err := Parse([]byte("id: r\ngrid: [SAB, 'E#A', PAT]\nrebus: [{row: 0, col: 0, value: st}]"))
	require.NoError(t, err)

	assert.Equal(t, "ST", p.Answers()[0])

	s, err := p.NewSession()
	require.NoError(t, err)
	s = game.Transition(s, game.Cheat{Unit: game.UnitPuzzle, IsReveal: true})
	assert.True(t, s.Solve.Success)
	word, _ := s.Grid.EntryWord(0)
	assert.Equal(t, "STAB", word)
}

func TestPuzzle_Validate(t *testing.T) {
	p, err := Parse([]byte("id: sq\ngrid: [ABC, BXY, CYZ]"))
	require.NoError(t, err)

	bs, err := p.Validate()
	require.NoError(t, err)
	assert.True(t, bs.GridIsComplete)
	assert.True(t, bs.HasNoShortWords)
	assert.True(t, bs.Repeats.Contains("ABC"))
	assert.True(t, bs.Repeats.Contains("BXY"))
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml":    {Data: []byte("id: b\ngrid: [AB]")},
		"a.yml":     {Data: []byte("id: a\ngrid: [CD]")},
		"notes.txt": {Data: []byte("ignored")},
	}
	c, err := Load(fsys)
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "a", c.All()[0].ID)
	assert.Equal(t, "b", c.At(1).ID)

	_, err = c.Get("zzz")
	assert.ErrorIs(t, err, ErrUnknownPuzzle)
}

func TestLoad_DuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"one.yaml": {Data: []byte("id: same\ngrid: [AB]")},
		"two.yaml": {Data: []byte("id: same\ngrid: [CD]")},
	}
	_, err := Load(fsys)
	assert.ErrorIs(t, err, ErrInvalidPuzzle)
}

// TestEmbeddedPuzzles verifies every bundled puzzle parses, starts a
// session, and is solved by revealing it.
func TestEmbeddedPuzzles(t *testing.T) {
	c, err := Load(assets.Puzzles())
	require.NoError(t, err)
	require.NotZero(t, c.Len())

	for _, p := range c.All() {
		s, err := p.NewSession()
		require.NoError(t, err, p.ID)
		s = game.Transition(s, game.Cheat{Unit: game.UnitPuzzle, IsReveal: true})
		assert.True(t, s.Solve.Success, p.ID)
		for _, e := range s.Grid.Entries() {
			assert.NotEmpty(t, p.Clue(e), "%s %s has no clue", p.ID, e.Label())
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tapYAML), 0o644))

	p, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Tap Room", p.Title)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

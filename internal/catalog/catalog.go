// internal/catalog/catalog.go
//
// The set of puzzles the hosts can start sessions from.
//
// Initialization behavior (Init):
//  1. If CROSSWORD_PUZZLES_DIR (passed in as dir) is set, load every *.yaml /
//     *.yml file in that directory.
//  2. Otherwise fall back to the puzzles embedded in the assets package.
//
// Init runs once (sync.Once); later calls return the first result.

package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/crossword/assets"
)

// Catalog is an immutable, id-indexed puzzle set.
type Catalog struct {
	byID map[string]*Puzzle
	ids  []string
}

// Load parses every YAML file at the top level of fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	c := &Catalog{byID: make(map[string]*Puzzle)}
	for _, e := range entries {
		ext := strings.ToLower(path.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q in %s", ErrInvalidPuzzle, p.ID, e.Name())
		}
		c.byID[p.ID] = p
		c.ids = append(c.ids, p.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// New builds a catalog from already-parsed puzzles.
func New(puzzles ...*Puzzle) *Catalog {
	c := &Catalog{byID: make(map[string]*Puzzle, len(puzzles))}
	for _, p := range puzzles {
		if _, dup := c.byID[p.ID]; !dup {
			c.ids = append(c.ids, p.ID)
		}
		c.byID[p.ID] = p
	}
	sort.Strings(c.ids)
	return c
}

// Get looks up a puzzle by id.
func (c *Catalog) Get(id string) (*Puzzle, error) {
	if p, ok := c.byID[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPuzzle, id)
}

// All returns the puzzles ordered by id.
func (c *Catalog) All() []*Puzzle {
	out := make([]*Puzzle, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Len is the number of puzzles.
func (c *Catalog) Len() int { return len(c.ids) }

// At returns the i-th puzzle in id order; used by the daily pick.
func (c *Catalog) At(i int) *Puzzle { return c.byID[c.ids[i]] }

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initErr    error
)

// Init loads the process-wide catalog exactly once.
func Init(dir string) (*Catalog, error) {
	initOnce.Do(func() {
		if dir != "" {
			defaultCat, initErr = Load(os.DirFS(dir))
		} else {
			defaultCat, initErr = Load(assets.Puzzles())
		}
		if initErr == nil && defaultCat.Len() == 0 {
			initErr = fmt.Errorf("%w: no puzzles found", ErrInvalidPuzzle)
		}
	})
	return defaultCat, initErr
}

package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/timer"
)

// SaveFile is a game written to disk by the terminal player.
type SaveFile struct {
	PuzzleID  string        `yaml:"puzzleId,omitempty"`
	Title     string        `yaml:"title,omitempty"`
	ElapsedMs int64         `yaml:"elapsedMs"`
	Snapshot  game.Snapshot `yaml:"snapshot"`
}

// Save writes f as YAML, replacing the file atomically.
func Save(path string, f SaveFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a save file.
func Load(path string) (SaveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SaveFile{}, err
	}
	var f SaveFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return SaveFile{}, fmt.Errorf("%w: %s: %v", game.ErrInvalidSnapshot, path, err)
	}
	return f, nil
}

// Resume rebuilds the engine state and a paused timer holding the saved
// time.
func (f SaveFile) Resume() (game.State, *timer.Timer, error) {
	s, err := game.Restore(f.Snapshot)
	if err != nil {
		return game.State{}, nil, err
	}
	return s, timer.New(timer.WithBanked(time.Duration(f.ElapsedMs) * time.Millisecond)), nil
}

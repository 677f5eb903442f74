package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/crossword/internal/catalog"
	"github.com/robalobadob/crossword/internal/daily"
	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/grid"
	"github.com/robalobadob/crossword/internal/tui"
)

var playFlags struct {
	puzzle string
	file   string
	resume string
	save   string
	build  gridSizeValue
	edit   bool
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Solve or build a puzzle in the terminal",
	Long: `Solve a puzzle in the terminal. Without --puzzle or --file, today's
daily puzzle is used. --build WxH opens the builder on a blank grid; --edit
opens the builder on the chosen puzzle's answers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		closeLog, err := playLogger()
		if err != nil {
			return err
		}
		defer closeLog()

		model, err := playModel(time.Now())
		if err != nil {
			return err
		}
		final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus()).Run()
		if err != nil {
			return err
		}
		if m, ok := final.(tui.Model); ok {
			if s := m.State().Solve; s != nil && s.Success {
				fmt.Fprintf(cmd.OutOrStdout(), "Solved in %s\n", m.Elapsed().Round(time.Second))
			}
		}
		return nil
	},
}

func init() {
	f := playCmd.Flags()
	f.StringVar(&playFlags.puzzle, "puzzle", "", "catalog puzzle id")
	f.StringVar(&playFlags.file, "file", "", "puzzle definition file (YAML)")
	f.StringVar(&playFlags.resume, "resume", "", "continue a saved game")
	f.StringVar(&playFlags.save, "save", "", "save file written by ctrl+s and on quit")
	f.Var(&playFlags.build, "build", "open the builder on a blank WxH grid")
	f.BoolVar(&playFlags.edit, "edit", false, "open the builder on the puzzle's answers")
	playCmd.MarkFlagsMutuallyExclusive("puzzle", "file", "resume", "build")
}

// playLogger sends logs to CROSSWORD_LOG_FILE, or drops them so they do not
// draw over the screen.
func playLogger() (func(), error) {
	if cfg.LogFile == "" {
		log.Logger = zerolog.New(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
}

// playModel builds the terminal model from the play flags.
func playModel(now time.Time) (tui.Model, error) {
	save := playFlags.save

	if playFlags.resume != "" {
		f, err := tui.Load(playFlags.resume)
		if err != nil {
			return tui.Model{}, err
		}
		s, t, err := f.Resume()
		if err != nil {
			return tui.Model{}, err
		}
		if save == "" {
			save = playFlags.resume
		}
		c := tui.Config{Title: f.Title, PuzzleID: f.PuzzleID, SavePath: save, Timer: t}
		if cat, err := catalog.Init(cfg.PuzzlesDir); err == nil {
			if p, err := cat.Get(f.PuzzleID); err == nil {
				c.Clue = p.Clue
			}
		}
		return tui.New(s, c), nil
	}

	if playFlags.build.isSet() {
		g, err := grid.NewBlank(playFlags.build.width, playFlags.build.height, true)
		if err != nil {
			return tui.Model{}, err
		}
		return tui.New(game.NewBuilder(g), tui.Config{Title: "New puzzle " + playFlags.build.String(), SavePath: save}), nil
	}

	p, err := choosePuzzle(now)
	if err != nil {
		return tui.Model{}, err
	}
	c := tui.Config{Title: p.Title, PuzzleID: p.ID, Clue: p.Clue, SavePath: save}
	if playFlags.edit {
		g, err := p.FilledGrid()
		if err != nil {
			return tui.Model{}, err
		}
		return tui.New(game.NewBuilder(g), c), nil
	}
	s, err := p.NewSession()
	if err != nil {
		return tui.Model{}, err
	}
	return tui.New(s, c), nil
}

func choosePuzzle(now time.Time) (*catalog.Puzzle, error) {
	if playFlags.file != "" {
		return catalog.ParseFile(playFlags.file)
	}
	cat, err := catalog.Init(cfg.PuzzlesDir)
	if err != nil {
		return nil, err
	}
	if playFlags.puzzle != "" {
		return cat.Get(playFlags.puzzle)
	}
	if cat.Len() == 0 {
		return nil, errors.New("no puzzles available")
	}
	return cat.At(daily.PuzzleIndex(now, cfg.DailySalt, cat.Len())), nil
}

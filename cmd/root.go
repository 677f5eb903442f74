// Package cmd holds the crossword command line: serve, play and validate.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/crossword/internal/config"
)

var (
	cfg      config.Config
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "crossword",
	Short: "Solve and build crossword puzzles",
	Long: `crossword hosts the crossword interaction engine.

Serve the HTTP session API
	crossword serve --port 5175

Solve a puzzle in the terminal
	crossword play --puzzle tap

Build a new 5x5 grid
	crossword play --build 5x5

Check puzzle files
	crossword validate puzzles/*.yaml
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is loaded by main before Execute, so read the environment here
		// rather than in init.
		cfg = config.Load()
		if logLevel == "" {
			logLevel = cfg.LogLevel
		}
		lvl, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		zerolog.SetGlobalLevel(lvl)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "zerolog level (default $LOG_LEVEL or info)")
	rootCmd.AddCommand(serveCmd, playCmd, validateCmd)
}

// gridSizeValue parses WxH grid dimensions.
type gridSizeValue struct {
	width, height int
}

func (v *gridSizeValue) String() string {
	if v.width == 0 && v.height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", v.width, v.height)
}

func (v *gridSizeValue) Set(value string) error {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(value)), "x")
	if !ok {
		return fmt.Errorf("grid size must look like 5x5")
	}
	width, err := strconv.Atoi(w)
	if err != nil || width < 1 {
		return fmt.Errorf("invalid grid width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 1 {
		return fmt.Errorf("invalid grid height %q", h)
	}
	v.width, v.height = width, height
	return nil
}

func (v *gridSizeValue) Type() string { return "WxH" }

func (v *gridSizeValue) isSet() bool { return v.width > 0 && v.height > 0 }

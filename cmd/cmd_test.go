package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crossword/internal/game"
)

const goodPuzzle = `
id: tap
title: Tap Room
grid: [TAP, "H#A", END]
clues:
  across: {1: Faucet, 3: Finish line}
  down: {1: Definite article, 2: Apartment}
`

const repeatPuzzle = `
id: echo
title: Echo
grid: [ABA, "B#B", ABA]
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGridSizeValue(t *testing.T) {
	var v gridSizeValue
	require.NoError(t, v.Set("15x12"))
	assert.Equal(t, 15, v.width)
	assert.Equal(t, 12, v.height)
	assert.Equal(t, "15x12", v.String())
	assert.True(t, v.isSet())

	for _, bad := range []string{"", "5", "0x5", "5x", "ax3"} {
		assert.Error(t, (&gridSizeValue{}).Set(bad), bad)
	}
}

func TestValidateFiles(t *testing.T) {
	good := writeFile(t, "tap.yaml", goodPuzzle)
	echo := writeFile(t, "echo.yaml", repeatPuzzle)
	broken := writeFile(t, "broken.yaml", "grid: [AB, C]\n")

	var out bytes.Buffer
	failed := validateFiles(&out, []string{good, echo, broken})
	assert.Equal(t, 1, failed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, good+": tap 3x3 complete=true shortWords=false", lines[0])
	assert.Equal(t, echo+": echo 3x3 complete=true shortWords=false repeats=ABA", lines[1])
	assert.Contains(t, lines[2], broken+": error:")
}

func TestValidateCommand(t *testing.T) {
	good := writeFile(t, "tap.yaml", goodPuzzle)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"validate", good})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "tap 3x3 complete=true")

	rootCmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, rootCmd.Execute())
}

func TestPlayModel(t *testing.T) {
	reset := func() {
		playFlags.puzzle, playFlags.file, playFlags.resume, playFlags.save = "", "", "", ""
		playFlags.build = gridSizeValue{}
		playFlags.edit = false
	}
	t.Cleanup(reset)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	reset()
	require.NoError(t, playFlags.build.Set("4x2"))
	m, err := playModel(now)
	require.NoError(t, err)
	assert.Equal(t, game.Authoring, m.State().Mode)
	assert.Equal(t, 4, m.State().Grid.Width())

	reset()
	playFlags.puzzle = "bag"
	m, err = playModel(now)
	require.NoError(t, err)
	assert.Equal(t, game.Solving, m.State().Mode)

	playFlags.edit = true
	m, err = playModel(now)
	require.NoError(t, err)
	assert.Equal(t, game.Authoring, m.State().Mode)
	assert.True(t, m.State().Build.GridIsComplete)

	reset()
	playFlags.file = writeFile(t, "tap.yaml", goodPuzzle)
	m, err = playModel(now)
	require.NoError(t, err)
	assert.Equal(t, 9, m.State().Grid.Len())

	reset()
	m, err = playModel(now)
	require.NoError(t, err, "falls back to the daily puzzle")
	assert.Equal(t, game.Solving, m.State().Mode)

	reset()
	playFlags.puzzle = "nope"
	_, err = playModel(now)
	assert.Error(t, err)
}

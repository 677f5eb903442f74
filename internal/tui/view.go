package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/crossword/internal/collections"
	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/grid"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cellStyle    = lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
	blockStyle   = cellStyle.Background(lipgloss.Color("240"))
	activeStyle  = cellStyle.Reverse(true)
	entryStyle   = cellStyle.Background(lipgloss.Color("153")).Foreground(lipgloss.Color("0"))
	shadeStyle   = cellStyle.Background(lipgloss.Color("252")).Foreground(lipgloss.Color("0"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Strikethrough(true)
	verifyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
	revealStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("129"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("166"))
)

const helpText = "letters type · tab/shift+tab entries · space turns · ctrl+b rebus · " +
	"ctrl+k/e/g check · ctrl+r/t/y reveal · ctrl+a autocheck · ctrl+s save · ctrl+c quit"

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.state.Mode.String()))
	if m.state.Solve != nil {
		b.WriteString("  " + formatElapsed(m.timer.Elapsed()))
		if m.state.Solve.Autocheck {
			b.WriteString(dimStyle.Render("  autocheck"))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n\n")

	if line := m.clueLine(); line != "" {
		b.WriteString(line + "\n")
	}
	if m.state.IsEnteringRebus {
		b.WriteString("rebus: " + m.state.RebusValue + "_\n")
	}
	for _, line := range m.statusLines() {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render(helpText))
	return b.String()
}

func (m Model) title() string {
	if m.cfg.Title != "" {
		return m.cfg.Title
	}
	return "Crossword"
}

func (m Model) renderGrid() string {
	g := m.state.Grid
	if g == nil {
		return ""
	}
	inEntry := map[grid.Position]bool{}
	if e, _ := m.state.ActiveEntry(); e != nil {
		for _, p := range e.Cells {
			inEntry[p] = true
		}
	}

	rows := make([]string, 0, g.Height())
	for r := 0; r < g.Height(); r++ {
		cells := make([]string, 0, g.Width())
		for c := 0; c < g.Width(); c++ {
			pos := grid.Position{Row: r, Col: c}
			cells = append(cells, m.renderCell(pos, inEntry[pos]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(pos grid.Position, inEntry bool) string {
	g := m.state.Grid
	i, _ := g.CellIndex(pos)
	v := g.Cell(i)
	if v == grid.Block {
		return blockStyle.Render(" ")
	}

	text := v
	switch {
	case grid.IsBlank(v):
		text = "·"
	case len([]rune(v)) > 1:
		text = string([]rune(v)[:1]) + "+"
	}
	if g.IsHighlighted(i) && g.Highlight() == grid.Circle {
		text = "(" + text + ")"
	}
	switch {
	case m.state.IsWrong(i):
		text = wrongStyle.Render(text)
	case m.state.IsRevealed(i):
		text = revealStyle.Render(text)
	case m.state.IsVerified(i):
		text = verifyStyle.Render(text)
	}

	switch {
	case pos == m.state.Active.Position:
		return activeStyle.Render(text)
	case inEntry:
		return entryStyle.Render(text)
	case g.IsHighlighted(i) && g.Highlight() == grid.Shade:
		return shadeStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}

func (m Model) clueLine() string {
	e, _ := m.state.ActiveEntry()
	if e == nil {
		return ""
	}
	line := e.Label()
	if m.cfg.Clue != nil {
		if clue := m.cfg.Clue(*e); clue != "" {
			line += "  " + clue
		}
	}
	return titleStyle.Render(line)
}

func (m Model) statusLines() []string {
	var out []string
	switch m.state.Mode {
	case game.Solving:
		switch {
		case m.state.ShowSuccess():
			out = append(out, successStyle.Render(fmt.Sprintf("Solved in %s!", formatElapsed(m.timer.Elapsed()))))
		case m.state.ShowKeepTrying():
			out = append(out, warnStyle.Render("The grid is full but something is wrong. Keep trying! (ctrl+d)"))
		}
	case game.Authoring:
		if b := m.state.Build; b != nil {
			if b.GridIsComplete {
				out = append(out, successStyle.Render("grid complete"))
			}
			if b.Repeats.Len() > 0 {
				out = append(out, warnStyle.Render("repeated: "+strings.Join(collections.Sorted(b.Repeats), ", ")))
			}
			if !b.HasNoShortWords {
				out = append(out, warnStyle.Render("has words of two letters or fewer"))
			}
		}
	}
	if m.status != "" {
		out = append(out, dimStyle.Render(m.status))
	}
	return out
}

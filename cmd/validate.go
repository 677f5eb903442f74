package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/crossword/internal/catalog"
	"github.com/robalobadob/crossword/internal/collections"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check puzzle definition files",
	Long: `validate parses each puzzle file and reports the builder checks:
whether every cell is filled, which words repeat, and whether any word is
two letters or shorter. It exits non-zero if a file cannot be parsed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := validateFiles(cmd.OutOrStdout(), args)
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed to parse", failed, len(args))
		}
		return nil
	},
}

// validateFiles reports on each file and returns how many failed to parse.
func validateFiles(w io.Writer, paths []string) int {
	failed := 0
	for _, path := range paths {
		p, err := catalog.ParseFile(path)
		if err == nil {
			var line string
			line, err = describe(p)
			if err == nil {
				fmt.Fprintf(w, "%s: %s\n", path, line)
				continue
			}
		}
		failed++
		fmt.Fprintf(w, "%s: error: %v\n", path, err)
	}
	return failed
}

func describe(p *catalog.Puzzle) (string, error) {
	b, err := p.Validate()
	if err != nil {
		return "", err
	}
	parts := []string{
		fmt.Sprintf("%s %dx%d", p.ID, p.Width(), p.Height()),
		fmt.Sprintf("complete=%t", b.GridIsComplete),
		fmt.Sprintf("shortWords=%t", !b.HasNoShortWords),
	}
	if b.Repeats.Len() > 0 {
		parts = append(parts, "repeats="+strings.Join(collections.Sorted(b.Repeats), ","))
	}
	return strings.Join(parts, " "), nil
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/prettymap/internal/domain"
	m "github.com/mouse-blink/prettymap/internal/model"
)

// lookupCmd represents the lookup command.
var lookupCmd = newLookupCmd()

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <map> <line:column>",
		Short: "Resolve a formatted position to the original bundle",
		Long: `Read a source map written by format and print the original position of
a generated one. Lines are 1-based and columns are 0-based, as in stack traces
produced by JavaScript engines.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, column, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			return workflow.Lookup(cmd.Context(), domain.LookupArgs{
				Map:    m.Path(args[0]),
				Line:   line,
				Column: column,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

// parsePosition parses LINE:COLUMN. A missing column means 0.
func parsePosition(position string) (int, int, error) {
	lineText, columnText, hasColumn := strings.Cut(strings.TrimSpace(position), ":")

	line, err := strconv.Atoi(lineText)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("invalid line in %q", position)
	}

	if !hasColumn {
		return line, 0, nil
	}

	column, err := strconv.Atoi(columnText)
	if err != nil || column < 0 {
		return 0, 0, fmt.Errorf("invalid column in %q", position)
	}

	return line, column, nil
}

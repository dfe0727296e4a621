package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/document"
	"github.com/jasonmoo/scssexpand/internal/errors"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Print the selector of the rule enclosing a position",
	Long: `Print the fully qualified selector of the innermost rule enclosing a
position. The position is a character offset or a 1-based line and column.
A file of "-" reads the style sheet from stdin.

Nested levels are joined with the separator (default a single space),
'&' is replaced with the parent selector, comma lists are multiplied out
and @at-root is honoured. A position outside any rule prints an empty line.

Examples:
  scssexpand resolve main.scss --line 12 --col 5
  scssexpand resolve main.scss --offset 340
  scssexpand resolve main.scss --line 12 --col 5 --separator " > "
  scssexpand resolve main.scss --line 12 --col 5 --explain -o yaml
  cat main.scss | scssexpand resolve - --offset 340`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var (
	resolveOffset  int
	resolveLine    int
	resolveCol     int
	resolveExplain bool
	resolveSnippet bool
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	addPositionFlags(resolveCmd, &resolveOffset, &resolveLine, &resolveCol)
	addSeparatorFlag(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveExplain, "explain", false, "Include the frames and @at-root decision behind the selector")
	resolveCmd.Flags().BoolVar(&resolveSnippet, "snippet", false, "Include the source of the enclosing rule")
}

// addPositionFlags registers --offset, --line and --col on cmd.
func addPositionFlags(cmd *cobra.Command, offset, line, col *int) {
	cmd.Flags().IntVar(offset, "offset", -1, "Character offset of the position (0-based)")
	cmd.Flags().IntVar(line, "line", 0, "Line of the position (1-based)")
	cmd.Flags().IntVar(col, "col", 0, "Column of the position in characters (1-based)")
	cmd.MarkFlagsMutuallyExclusive("offset", "line")
	cmd.MarkFlagsRequiredTogether("line", "col")
}

// cursorOffset converts the position flags to a character offset in doc.
func cursorOffset(file string, doc *document.Text, offset, line, col int) (int, error) {
	switch {
	case offset >= 0:
		if offset > doc.Len() {
			return 0, errors.NewInvalidPosition(file,
				fmt.Errorf("offset %d out of range (document has %d characters)", offset, doc.Len()))
		}
		return offset, nil
	case line > 0 || col > 0:
		off, err := doc.Offset(line, col)
		if err != nil {
			return 0, errors.NewInvalidPosition(file, err)
		}
		return off, nil
	}
	return 0, errors.NewInvalidPosition(file, fmt.Errorf("either --offset or --line and --col is required"))
}

func runResolve(cmd *cobra.Command, args []string) error {
	file := args[0]
	writer, err := GetWriter(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	doc, err := loadDocument(file)
	if err != nil {
		return fail(writer, err, errors.CodeReadError)
	}

	cursor, err := cursorOffset(file, doc, resolveOffset, resolveLine, resolveCol)
	if err != nil {
		return fail(writer, err, errors.CodeInvalidPosition)
	}

	snippets := newSnippetExtractor()
	snippets.Add(file, doc)

	resp := buildResolveResponse(file, doc, cursor, newExpander(cmd), snippets, resolveExplain, resolveSnippet)
	logger.Debug("resolved",
		slog.String("file", file),
		slog.Int("offset", cursor),
		slog.String("selector", resp.Selector))
	return writer.Write(resp)
}

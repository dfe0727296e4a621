package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-resolve a position every time the file changes",
	Long: `Resolve the selector at a position, then resolve it again each time the
file is saved, until interrupted. The position is kept as given, so after
an edit it may fall in a different rule.

Examples:
  scssexpand watch main.scss --line 12 --col 5
  scssexpand watch main.scss --offset 340 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchOffset  int
	watchLine    int
	watchCol     int
	watchExplain bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	addPositionFlags(watchCmd, &watchOffset, &watchLine, &watchCol)
	addSeparatorFlag(watchCmd)
	watchCmd.Flags().BoolVar(&watchExplain, "explain", false, "Include the frames and @at-root decision behind the selector")
}

func runWatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	writer, err := GetWriter(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}
	if file == "-" {
		return fail(writer, fmt.Errorf("cannot watch stdin"), errors.CodeReadError)
	}
	if _, err := loadDocument(file); err != nil {
		return fail(writer, err, errors.CodeReadError)
	}

	exp := newExpander(cmd)
	snippets := newSnippetExtractor()

	resolve := func(path string) error {
		doc, err := loadDocument(path)
		if err != nil {
			return writer.WriteError(err, errors.CodeReadError)
		}
		cursor, err := cursorOffset(path, doc, watchOffset, watchLine, watchCol)
		if err != nil {
			return writer.WriteError(err, errors.CodeInvalidPosition)
		}
		snippets.Add(path, doc)
		return writer.Write(buildResolveResponse(path, doc, cursor, exp, snippets, watchExplain, false))
	}

	if err := resolve(file); err != nil {
		return err
	}

	w, err := watch.New([]string{file}, watch.Options{Logger: logger})
	if err != nil {
		return fail(writer, err, errors.CodeReadError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The watcher reports absolute paths; keep reporting the name as given
	return w.Run(ctx, func(string) error { return resolve(file) })
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jasonmoo/scssexpand/internal/document"
	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/expand"
	"github.com/jasonmoo/scssexpand/internal/output"
)

// GetWriter returns an output writer with the configured format.
func GetWriter(w io.Writer) (*output.Writer, error) {
	if cfg.Output == "" || cfg.Output == "text" {
		return output.NewWriter(w, output.NewTextFormatter(colorEnabled(cfg.Color, w))), nil
	}
	f, err := output.DefaultRegistry.Get(cfg.Output)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(w, f), nil
}

// colorEnabled decides whether text output is colored. auto colors only a
// terminal, and NO_COLOR turns it off.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		f, ok := w.(*os.File)
		color.NoColor = !ok || !term.IsTerminal(int(f.Fd())) || os.Getenv("NO_COLOR") != ""
	}
	return !color.NoColor
}

// newExpander builds an expander joining levels with the configured
// separator, or with --separator when it was given, even if empty.
func newExpander(cmd *cobra.Command) *expand.Expander {
	separator := cfg.Separator
	if f := cmd.Flags().Lookup("separator"); f != nil && f.Changed {
		separator = f.Value.String()
	}
	return expand.New(expand.Options{Logger: logger}).WithSeparator(separator)
}

// addSeparatorFlag registers --separator on cmd.
func addSeparatorFlag(cmd *cobra.Command) {
	cmd.Flags().String("separator", "", "String joining nesting levels, may be empty (default from config)")
}

// loadDocument reads a style sheet, mapping failures to structured errors.
func loadDocument(path string) (*document.Text, error) {
	if path != "-" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
	}
	doc, err := document.Load(path)
	if err != nil {
		return nil, errors.NewReadError(path, err)
	}
	return doc, nil
}

// newSnippetExtractor returns an extractor using the configured context.
func newSnippetExtractor() *output.SnippetExtractor {
	s := output.NewSnippetExtractor()
	s.ContextLines = cfg.ContextLines
	return s
}

// fail writes err through writer and returns errReported.
func fail(writer *output.Writer, err error, code errors.Code) error {
	if werr := writer.WriteError(err, code); werr != nil {
		return fmt.Errorf("writing error: %w", werr)
	}
	return errReported
}

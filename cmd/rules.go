package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/expand"
	"github.com/jasonmoo/scssexpand/internal/output"
	"github.com/jasonmoo/scssexpand/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [file|dir|glob]...",
	Short: "List every rule with its resolved selector",
	Long: `List every rule in the given style sheets with its fully qualified
selector, in document order. Directories are searched with the include
patterns from the config (default **/*.scss, **/*.sass, **/*.less, **/*.css),
skipping excluded directories. With no arguments the current directory is
used.

Examples:
  scssexpand rules main.scss
  scssexpand rules src/ --min-depth 2
  scssexpand rules "src/**/_*.scss" -o json`,
	RunE: runRules,
}

var (
	rulesMinDepth int
	rulesSnippet  bool
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	addSeparatorFlag(rulesCmd)
	rulesCmd.Flags().IntVar(&rulesMinDepth, "min-depth", 0, "Only list rules nested at least this deep")
	rulesCmd.Flags().BoolVar(&rulesSnippet, "snippet", false, "Include the source of each rule")
}

// ruleSet is every rule found in a set of files.
type ruleSet struct {
	Files    []string
	Rules    []rules.Rule
	Snippets *output.SnippetExtractor
}

// loadRules collects style sheets from args and enumerates their rules.
func loadRules(args []string, exp *expand.Expander) (*ruleSet, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	if len(args) == 1 && args[0] == "-" {
		files = args
	} else {
		var err error
		files, err = rules.Collect(args, cfg.Include, cfg.Exclude)
		if err != nil {
			return nil, err
		}
	}

	set := &ruleSet{Files: files, Snippets: newSnippetExtractor()}
	for _, file := range files {
		doc, err := loadDocument(file)
		if err != nil {
			return nil, err
		}
		set.Snippets.Add(file, doc)
		found := rules.Enumerate(file, doc, exp)
		logger.Debug("enumerated rules", slog.String("file", file), slog.Int("rules", len(found)))
		set.Rules = append(set.Rules, found...)
	}
	return set, nil
}

func runRules(cmd *cobra.Command, args []string) error {
	writer, err := GetWriter(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	set, err := loadRules(args, newExpander(cmd))
	if err != nil {
		return fail(writer, err, errors.CodeReadError)
	}

	var snippets *output.SnippetExtractor
	if rulesSnippet {
		snippets = set.Snippets
	}

	resp := &output.RulesResponse{
		Query:   output.QueryInfo{Command: "rules", Files: set.Files},
		Results: []output.RuleResult{},
	}
	for _, r := range set.Rules {
		if r.Depth < rulesMinDepth {
			continue
		}
		resp.Results = append(resp.Results, ruleResult(r, snippets))
	}
	resp.Summary = output.Summary{Files: len(set.Files), Count: len(resp.Results)}

	return writer.Write(resp)
}

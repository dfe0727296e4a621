package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/output"
	"github.com/jasonmoo/scssexpand/internal/rules"
)

var findCmd = &cobra.Command{
	Use:   "find <selector> [file|dir|glob]...",
	Short: "Find the rules that resolve to a selector",
	Long: `Find every rule whose resolved selector, or one of its comma separated
alternatives, equals the given selector. Whitespace differences are
ignored. When nothing matches, the closest selectors are suggested.

Examples:
  scssexpand find ".nav a:hover" src/
  scssexpand find ".card .title" main.scss --snippet`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

var findSnippet bool

func init() {
	rootCmd.AddCommand(findCmd)
	addSeparatorFlag(findCmd)
	findCmd.Flags().BoolVar(&findSnippet, "snippet", false, "Include the source of each rule")
}

func runFind(cmd *cobra.Command, args []string) error {
	selector := args[0]
	writer, err := GetWriter(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	set, err := loadRules(args[1:], newExpander(cmd))
	if err != nil {
		return fail(writer, err, errors.CodeReadError)
	}

	found, err := rules.Lookup(set.Rules, selector)
	if err != nil {
		return fail(writer, err, errors.CodeSelectorNotFound)
	}

	var snippets *output.SnippetExtractor
	if findSnippet {
		snippets = set.Snippets
	}

	resp := &output.RulesResponse{
		Query:   output.QueryInfo{Command: "find", Target: selector, Files: set.Files},
		Results: make([]output.RuleResult, 0, len(found)),
	}
	for _, r := range found {
		resp.Results = append(resp.Results, ruleResult(r, snippets))
	}
	resp.Summary = output.Summary{Files: len(set.Files), Count: len(resp.Results)}

	return writer.Write(resp)
}

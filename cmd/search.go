package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/output"
	"github.com/jasonmoo/scssexpand/internal/rules"
)

var searchCmd = &cobra.Command{
	Use:   "search <query> [file|dir|glob]...",
	Short: "Fuzzy search rules by resolved selector",
	Long: `Search rules by fuzzy matching the query against their resolved
selectors. Each rule is reported once, with its best matching alternative.
Results are ranked by relevance: exact substrings and selectors close in
length to the query rank first.

Query Syntax:
  hover          Fuzzy match - matches ".nav a:hover", ".btn:hover"
  navbtn         Abbreviation match - matches ".nav .btn"

Examples:
  scssexpand search hover src/
  scssexpand search --limit 5 "card title" main.scss`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchLimit   int
	searchSnippet bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results (0 for all)")
	addSeparatorFlag(searchCmd)
	searchCmd.Flags().BoolVar(&searchSnippet, "snippet", false, "Include the source of each rule")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	writer, err := GetWriter(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	set, err := loadRules(args[1:], newExpander(cmd))
	if err != nil {
		return fail(writer, err, errors.CodeReadError)
	}

	all := rules.Search(set.Rules, query, 0)
	matches := all
	if searchLimit > 0 && len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}

	var snippets *output.SnippetExtractor
	if searchSnippet {
		snippets = set.Snippets
	}

	resp := &output.RulesResponse{
		Query:   output.QueryInfo{Command: "search", Target: query, Files: set.Files},
		Results: make([]output.RuleResult, 0, len(matches)),
	}
	for _, m := range matches {
		res := ruleResult(m.Rule, snippets)
		res.Score = m.Score
		res.Matched = m.Alternative
		resp.Results = append(resp.Results, res)
	}
	resp.Summary = output.Summary{
		Files:     len(set.Files),
		Count:     len(resp.Results),
		Truncated: len(all) > len(matches),
	}

	return writer.Write(resp)
}

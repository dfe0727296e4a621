package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jasonmoo/scssexpand/internal/document"
	"github.com/jasonmoo/scssexpand/internal/expand"
	"github.com/jasonmoo/scssexpand/internal/output"
	"github.com/jasonmoo/scssexpand/internal/rules"
)

// buildResolveResponse resolves the selector at cursor.
func buildResolveResponse(file string, doc *document.Text, cursor int, exp *expand.Expander,
	snippets *output.SnippetExtractor, explain, withSnippet bool) *output.ResolveResponse {

	res := exp.Trace(doc, cursor)
	line, col, _ := doc.Position(cursor)

	resp := &output.ResolveResponse{
		Query: output.QueryInfo{
			Command:   "resolve",
			Target:    file,
			Separator: exp.Separator(),
		},
		Position:     output.Position{File: file, Offset: cursor, Line: line, Column: col},
		Selector:     res.Selector,
		Alternatives: res.Alternatives,
	}
	if explain {
		resp.Trace = res
	}
	if withSnippet && res.Block >= 0 {
		s, err := snippets.ExtractRule(file, res.Block)
		if err != nil {
			logger.Warn("snippet failed", slog.String("file", file), slog.String("error", err.Error()))
		}
		resp.Snippet = s
	}
	return resp
}

// ruleResult converts a rule for output.
func ruleResult(r rules.Rule, snippets *output.SnippetExtractor) output.RuleResult {
	res := output.RuleResult{
		Selector:     r.Selector,
		Alternatives: r.Alternatives,
		Location:     fmt.Sprintf("%s:%d:%d", r.File, r.Line, r.Column),
		Depth:        r.Depth,
	}
	if snippets != nil {
		s, err := snippets.ExtractRule(r.File, r.Offset)
		if err != nil {
			logger.Warn("snippet failed", slog.String("file", r.File), slog.String("error", err.Error()))
		}
		res.Snippet = s
	}
	return res
}

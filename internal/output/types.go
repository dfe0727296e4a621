// Package output provides types and utilities for scssexpand's output.
package output

import "github.com/jasonmoo/scssexpand/internal/expand"

// QueryInfo describes the query that was executed.
type QueryInfo struct {
	Command   string   `json:"command" yaml:"command"`
	Target    string   `json:"target,omitempty" yaml:"target,omitempty"`
	Files     []string `json:"files,omitempty" yaml:"files,omitempty"`
	Separator string   `json:"separator,omitempty" yaml:"separator,omitempty"`
}

// Position is a cursor location in a file. Line and Column are 1-based.
type Position struct {
	File   string `json:"file" yaml:"file"`
	Offset int    `json:"offset" yaml:"offset"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// Snippet represents source lines with their location.
type Snippet struct {
	Location string `json:"location" yaml:"location"` // "file:start:end"
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
	Source   string `json:"source" yaml:"source"`
}

// ResolveResponse is the output for the resolve and watch commands.
type ResolveResponse struct {
	Query        QueryInfo      `json:"query" yaml:"query"`
	Position     Position       `json:"position" yaml:"position"`
	Selector     string         `json:"selector" yaml:"selector"`
	Alternatives []string       `json:"alternatives" yaml:"alternatives"`
	Snippet      *Snippet       `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	Trace        *expand.Result `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// RuleResult is one rule in a listing.
type RuleResult struct {
	Selector     string   `json:"selector" yaml:"selector"`
	Alternatives []string `json:"alternatives" yaml:"alternatives"`
	Location     string   `json:"location" yaml:"location"` // file:line:column
	Depth        int      `json:"depth" yaml:"depth"`
	Score        int      `json:"score,omitempty" yaml:"score,omitempty"`
	Matched      string   `json:"matched,omitempty" yaml:"matched,omitempty"`
	Snippet      *Snippet `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// Summary provides aggregate information about the results.
type Summary struct {
	Files     int  `json:"files" yaml:"files"`
	Count     int  `json:"count" yaml:"count"`
	Truncated bool `json:"truncated" yaml:"truncated"`
}

// RulesResponse is the output for the rules, find and search commands.
type RulesResponse struct {
	Query   QueryInfo    `json:"query" yaml:"query"`
	Results []RuleResult `json:"results" yaml:"results"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// FormatInfo describes one registered formatter.
type FormatInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// FormatsResponse is the output for the formats command.
type FormatsResponse struct {
	Formats []FormatInfo `json:"formats" yaml:"formats"`
}

// VersionResponse is the output for the version command.
type VersionResponse struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// ErrorResponse is the output when an error occurs.
type ErrorResponse struct {
	Error ErrorDetail `json:"error" yaml:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code        string         `json:"code" yaml:"code"`
	Message     string         `json:"message" yaml:"message"`
	Suggestions []string       `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Context     map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

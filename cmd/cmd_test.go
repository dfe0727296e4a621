package cmd

import (
	"bytes"
	stderrors "errors"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/document"
	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/expand"
	"github.com/jasonmoo/scssexpand/internal/output"
)

const navSheet = `.nav {
  /* .hidden { } */
  a, button {
    &:hover { color: red; }
  }
  @media (min-width: 10px) {
    .item-#{$i} { x: y; }
  }
}
.footer { }
`

// execute runs the root command in a fresh directory holding nav.scss.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "nav.scss")
	if err := os.WriteFile(path, []byte(navSheet), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), path, err
}

func TestCursorOffset(t *testing.T) {
	doc := document.FromString(".a {\n  b: c;\n}\n")

	tests := []struct {
		name              string
		offset, line, col int
		want              int
		wantErr           bool
	}{
		{name: "offset", offset: 6, want: 6},
		{name: "offset at end", offset: 15, want: 15},
		{name: "offset past end", offset: 16, wantErr: true},
		{name: "line and column", offset: -1, line: 2, col: 3, want: 7},
		{name: "column past line", offset: -1, line: 2, col: 10, wantErr: true},
		{name: "no position", offset: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cursorOffset("a.scss", doc, tt.offset, tt.line, tt.col)
			if tt.wantErr {
				ee, ok := err.(*errors.ExpandError)
				if !ok || ee.Code != errors.CodeInvalidPosition {
					t.Errorf("cursorOffset() error = %v, want %s", err, errors.CodeInvalidPosition)
				}
				return
			}
			if err != nil {
				t.Fatalf("cursorOffset() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cursorOffset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildResolveResponse(t *testing.T) {
	doc := document.FromString(navSheet)
	snippets := output.NewSnippetExtractor()
	snippets.Add("nav.scss", doc)

	resp := buildResolveResponse("nav.scss", doc, 53, expand.New(expand.Options{Separator: " > "}), snippets, true, true)

	if resp.Selector != ".nav > a:hover, .nav > button:hover" {
		t.Errorf("Selector = %q", resp.Selector)
	}
	if resp.Position.Line != 4 || resp.Position.Column != 13 {
		t.Errorf("Position = %d:%d, want 4:13", resp.Position.Line, resp.Position.Column)
	}
	if resp.Query.Separator != " > " {
		t.Errorf("Separator = %q, want %q", resp.Query.Separator, " > ")
	}
	if resp.Trace == nil || len(resp.Trace.Frames) != 3 {
		t.Errorf("Trace = %+v, want 3 frames", resp.Trace)
	}
	if resp.Snippet == nil || resp.Snippet.Source != "    &:hover { color: red; }" {
		t.Errorf("Snippet = %+v", resp.Snippet)
	}
}

func TestExecute_Resolve(t *testing.T) {
	out, path, err := execute(t, "resolve", "nav.scss", "--line", "7", "--col", "20", "-o", "json")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var resp output.ResolveResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if want := ".nav @media (min-width: 10px) .item-#{$i}"; resp.Selector != want {
		t.Errorf("Selector = %q, want %q (%s)", resp.Selector, want, path)
	}
}

func TestExecute_ResolveEmptySeparator(t *testing.T) {
	t.Cleanup(func() {
		f := resolveCmd.Flags().Lookup("separator")
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	out, _, err := execute(t, "resolve", "nav.scss", "--line", "7", "--col", "20", "--separator", "", "-o", "json")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var resp output.ResolveResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if want := ".nav@media (min-width: 10px).item-#{$i}"; resp.Selector != want {
		t.Errorf("Selector = %q, want %q", resp.Selector, want)
	}
	if resp.Query.Separator != "" {
		t.Errorf("Separator = %q, want empty", resp.Query.Separator)
	}
}

func TestNewExpander(t *testing.T) {
	tests := []struct {
		name string
		flag *string
		want string
	}{
		{name: "config default", want: " "},
		{name: "flag", flag: ptr(" > "), want: " > "},
		{name: "empty flag", flag: ptr(""), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "x"}
			addSeparatorFlag(cmd)
			if tt.flag != nil {
				if err := cmd.Flags().Set("separator", *tt.flag); err != nil {
					t.Fatal(err)
				}
			}
			if got := newExpander(cmd).Separator(); got != tt.want {
				t.Errorf("Separator() = %q, want %q", got, tt.want)
			}
		})
	}
}

func ptr(s string) *string { return &s }

func TestExecute_Rules(t *testing.T) {
	out, _, err := execute(t, "rules", ".", "-o", "json")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var resp output.RulesResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if resp.Summary.Files != 1 || resp.Summary.Count != 6 {
		t.Errorf("Summary = %+v, want 1 file and 6 rules", resp.Summary)
	}
	if len(resp.Results) > 0 && resp.Results[0].Location != "nav.scss:1:6" {
		t.Errorf("first location = %q, want nav.scss:1:6", resp.Results[0].Location)
	}
}

func TestExecute_FindNotFound(t *testing.T) {
	out, _, err := execute(t, "find", ".nav buton", "nav.scss", "-o", "json")
	if !stderrors.Is(err, errReported) {
		t.Fatalf("Execute() error = %v, want errReported", err)
	}

	var resp output.ErrorResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if resp.Error.Code != string(errors.CodeSelectorNotFound) {
		t.Errorf("code = %q, want %q", resp.Error.Code, errors.CodeSelectorNotFound)
	}
	if len(resp.Error.Suggestions) == 0 || resp.Error.Suggestions[0] != ".nav button" {
		t.Errorf("suggestions = %v", resp.Error.Suggestions)
	}
}

package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jasonmoo/scssexpand/internal/document"
	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/expand"
	"github.com/kr/pretty"
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

func navRules(t *testing.T) []Rule {
	t.Helper()
	return Enumerate("nav.scss", document.FromString(navSheet), expand.New(expand.Options{}))
}

func TestEnumerate(t *testing.T) {
	want := []Rule{
		{File: "nav.scss", Selector: ".nav", Alternatives: []string{".nav"}, Offset: 5, Line: 1, Column: 6, Depth: 1},
		{File: "nav.scss", Selector: ".nav a, .nav button", Alternatives: []string{".nav a", ".nav button"}, Offset: 39, Line: 3, Column: 13, Depth: 2},
		{File: "nav.scss", Selector: ".nav a:hover, .nav button:hover", Alternatives: []string{".nav a:hover", ".nav button:hover"}, Offset: 53, Line: 4, Column: 13, Depth: 3},
		{File: "nav.scss", Selector: ".nav @media (min-width: 10px)", Alternatives: []string{".nav @media (min-width: 10px)"}, Offset: 100, Line: 6, Column: 28, Depth: 2},
		{File: "nav.scss", Selector: ".nav @media (min-width: 10px) .item-#{$i}", Alternatives: []string{".nav @media (min-width: 10px) .item-#{$i}"}, Offset: 118, Line: 7, Column: 17, Depth: 3},
		{File: "nav.scss", Selector: ".footer", Alternatives: []string{".footer"}, Offset: 142, Line: 10, Column: 9, Depth: 1},
	}

	got := navRules(t)
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("Enumerate() mismatch:\n%s", strings.Join(diff, "\n"))
	}
}

func TestEnumerate_Empty(t *testing.T) {
	exp := expand.New(expand.Options{})
	for _, src := range []string{"", "/* .a { } */", "a: b;"} {
		if got := Enumerate("", document.FromString(src), exp); len(got) != 0 {
			t.Errorf("Enumerate(%q) = %v, want none", src, got)
		}
	}
}

func TestLookup(t *testing.T) {
	rules := navRules(t)

	tests := []struct {
		name       string
		selector   string
		wantOffset []int
	}{
		{"single alternative", ".footer", []int{142}},
		{"one of several alternatives", ".nav button", []int{39}},
		{"whitespace is normalized", "  .nav   a:hover ", []int{53}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(rules, tt.selector)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.selector, err)
			}
			var offsets []int
			for _, r := range got {
				offsets = append(offsets, r.Offset)
			}
			if diff := pretty.Diff(offsets, tt.wantOffset); len(diff) > 0 {
				t.Errorf("Lookup(%q) offsets mismatch:\n%s", tt.selector, strings.Join(diff, "\n"))
			}
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	_, err := Lookup(navRules(t), ".nav buton")
	ee, ok := err.(*errors.ExpandError)
	if !ok || ee.Code != errors.CodeSelectorNotFound {
		t.Fatalf("Lookup() error = %v, want %s", err, errors.CodeSelectorNotFound)
	}
	if len(ee.Suggestions) == 0 || ee.Suggestions[0] != ".nav button" {
		t.Errorf("Suggestions = %v, want .nav button first", ee.Suggestions)
	}
}

func TestSearch(t *testing.T) {
	rules := navRules(t)

	matches := Search(rules, "hover", 0)
	if len(matches) != 1 {
		t.Fatalf("Search(hover) returned %d matches, want 1: %# v", len(matches), pretty.Formatter(matches))
	}
	if matches[0].Rule.Offset != 53 {
		t.Errorf("Search(hover) matched rule at %d, want 53", matches[0].Rule.Offset)
	}
	if !strings.HasSuffix(matches[0].Alternative, ":hover") {
		t.Errorf("Alternative = %q, want a :hover selector", matches[0].Alternative)
	}

	if got := Search(rules, "nav", 2); len(got) != 2 {
		t.Errorf("Search(nav, 2) returned %d matches, want 2", len(got))
	}
	if got := Search(rules, "zzz", 0); len(got) != 0 {
		t.Errorf("Search(zzz) = %v, want none", got)
	}
}

func TestSearch_ExactSubstringRanksFirst(t *testing.T) {
	rules := []Rule{
		{Selector: ".f-o-o-t-e-r", Alternatives: []string{".f-o-o-t-e-r"}, Offset: 1},
		{Selector: ".footer", Alternatives: []string{".footer"}, Offset: 2},
	}
	matches := Search(rules, "footer", 0)
	if len(matches) != 2 {
		t.Fatalf("Search() returned %d matches, want 2", len(matches))
	}
	if matches[0].Rule.Offset != 2 {
		t.Errorf("first match = %q, want .footer", matches[0].Alternative)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.scss", "sub/b.scss", "node_modules/lib/c.scss", "notes.txt", "sub/d.css"} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(".a { }"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	join := func(name string) string { return filepath.Join(dir, filepath.FromSlash(name)) }

	tests := []struct {
		name    string
		args    []string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "directory uses include patterns",
			args:    []string{dir},
			include: []string{"**/*.scss"},
			exclude: []string{"node_modules"},
			want:    []string{join("a.scss"), join("sub/b.scss")},
		},
		{
			name:    "several include patterns",
			args:    []string{dir},
			include: []string{"**/*.scss", "**/*.css"},
			exclude: []string{"node_modules"},
			want:    []string{join("a.scss"), join("sub/b.scss"), join("sub/d.css")},
		},
		{
			name:    "file is taken as is",
			args:    []string{join("notes.txt")},
			include: []string{"**/*.scss"},
			want:    []string{join("notes.txt")},
		},
		{
			name: "glob argument",
			args: []string{join("**/*.css")},
			want: []string{join("sub/d.css")},
		},
		{
			name:    "exclude pattern",
			args:    []string{dir},
			include: []string{"**/*.scss"},
			exclude: []string{"**/sub/**"},
			want:    []string{join("a.scss"), join("node_modules/lib/c.scss")},
		},
		{
			name:    "duplicates removed",
			args:    []string{join("a.scss"), dir},
			include: []string{"*.scss"},
			want:    []string{join("a.scss")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(tt.args, tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("Collect() error: %v", err)
			}
			if diff := pretty.Diff(got, tt.want); len(diff) > 0 {
				t.Errorf("Collect() mismatch:\n%s", strings.Join(diff, "\n"))
			}
		})
	}
}

func TestCollect_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		include []string
		want    errors.Code
	}{
		{"no match", []string{filepath.Join(dir, "*.scss")}, nil, errors.CodeFileNotFound},
		{"bad include", []string{dir}, []string{"[a-"}, errors.CodeInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collect(tt.args, tt.include, nil)
			ee, ok := err.(*errors.ExpandError)
			if !ok || ee.Code != tt.want {
				t.Errorf("Collect() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

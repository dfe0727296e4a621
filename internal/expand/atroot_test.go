package expand

import (
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func TestApplyAtRoot(t *testing.T) {
	ancestors := []string{"@media screen", "@supports something", ".foo"}

	tests := []struct {
		name   string
		frame  string
		nested []string
		want   []string
	}{
		{
			name:  "bare keeps directives",
			frame: "@at-root .bar",
			want:  []string{"@media screen", "@supports something", ".bar"},
		},
		{
			name:  "without all",
			frame: "@at-root(without: all) .bar",
			want:  []string{".bar"},
		},
		{
			name:  "with rule",
			frame: "@at-root(with: rule) .bar",
			want:  []string{".foo", ".bar"},
		},
		{
			name:  "with a directive",
			frame: "@at-root(with: supports) .bar",
			want:  []string{"@supports something", ".bar"},
		},
		{
			name:  "with a directive and rule",
			frame: "@at-root (with: media rule) .bar",
			want:  []string{"@media screen", ".foo", ".bar"},
		},
		{
			name:  "with all",
			frame: "@at-root(with: all) .bar",
			want:  []string{"@media screen", "@supports something", ".foo", ".bar"},
		},
		{
			name:  "without a directive",
			frame: "@at-root(without: media) .bar",
			want:  []string{"@supports something", ".bar"},
		},
		{
			name:  "without rule",
			frame: "@at-root(without: rule) .bar",
			want:  []string{"@media screen", "@supports something", ".bar"},
		},
		{
			name:  "without rule and a directive",
			frame: "@at-root(without: rule media) .bar",
			want:  []string{"@media screen", "@supports something", ".bar"},
		},
		{
			name:  "unknown names are matched literally",
			frame: "@at-root(without: bogus) .bar",
			want:  []string{"@media screen", "@supports something", ".bar"},
		},
		{
			name:   "nested frames are kept",
			frame:  "@at-root",
			nested: []string{".bar", "&:hover"},
			want:   []string{"@media screen", "@supports something", "", ".bar", "&:hover"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := append(append(append([]string{}, ancestors...), tt.frame), tt.nested...)
			got := ApplyAtRoot(frames)
			if diff := pretty.Diff(got, tt.want); len(diff) > 0 {
				t.Errorf("ApplyAtRoot() mismatch:\n%s", strings.Join(diff, "\n"))
			}
			if frames[len(ancestors)] != tt.frame {
				t.Errorf("input frame modified: %q", frames[len(ancestors)])
			}
		})
	}
}

func TestApplyAtRoot_LastDirectiveWins(t *testing.T) {
	frames := []string{".x", "@at-root(without: all) .a", "@media m", "@at-root(with: rule) .b"}
	got := ApplyAtRoot(frames)
	want := []string{".x", ".b"}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("ApplyAtRoot() mismatch:\n%s", strings.Join(diff, "\n"))
	}
}

func TestApplyAtRoot_NoDirective(t *testing.T) {
	frames := []string{".a", ".b"}
	got := ApplyAtRoot(frames)
	if diff := pretty.Diff(got, frames); len(diff) > 0 {
		t.Errorf("ApplyAtRoot() mismatch:\n%s", strings.Join(diff, "\n"))
	}
}

func TestFindAtRoot(t *testing.T) {
	at, ok := FindAtRoot([]string{".a", "@at-root (without: media supports) .b"})
	if !ok {
		t.Fatal("FindAtRoot() found nothing")
	}
	if at.Exclusion != ExclusionWithout || at.Frame != 1 {
		t.Errorf("FindAtRoot() = %+v", at)
	}
	if diff := pretty.Diff(at.Names, []string{"media", "supports"}); len(diff) > 0 {
		t.Errorf("Names mismatch:\n%s", strings.Join(diff, "\n"))
	}
	if got := at.String(); got != "@at-root (without: media supports)" {
		t.Errorf("String() = %q", got)
	}
}

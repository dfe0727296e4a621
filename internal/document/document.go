// Package document provides read-only, character-indexed access to style
// sheet text.
package document

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Document is an immutable sequence of characters addressed by zero-based
// index. CharAt is only called with 0 <= i < Len().
type Document interface {
	CharAt(i int) rune
	Len() int
}

// Text is a Document backed by a rune slice.
type Text struct {
	runes []rune
	lines []int // offset of the first character of each line
}

var _ Document = (*Text)(nil)

// FromString creates a Text from s.
func FromString(s string) *Text {
	t := &Text{runes: []rune(s)}
	t.indexLines()
	return t
}

// FromBytes creates a Text from UTF-8 encoded bytes.
func FromBytes(b []byte) *Text {
	return FromString(string(b))
}

// Load reads a file into a Text. A path of "-" reads stdin.
func Load(path string) (*Text, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return FromBytes(data), nil
}

func (t *Text) indexLines() {
	t.lines = []int{0}
	for i, r := range t.runes {
		if r == '\n' {
			t.lines = append(t.lines, i+1)
		}
	}
}

func (t *Text) CharAt(i int) rune { return t.runes[i] }

func (t *Text) Len() int { return len(t.runes) }

// String returns the whole document.
func (t *Text) String() string { return string(t.runes) }

// LineCount returns the number of lines. A trailing newline starts an
// empty final line.
func (t *Text) LineCount() int { return len(t.lines) }

// Offset converts a 1-based line and column (in characters) to a
// character offset. Column len(line)+1 addresses the position just past
// the last character of the line.
func (t *Text) Offset(line, col int) (int, error) {
	if line < 1 || line > len(t.lines) {
		return 0, fmt.Errorf("line %d out of range (document has %d lines)", line, len(t.lines))
	}
	start := t.lines[line-1]
	end := len(t.runes)
	if line < len(t.lines) {
		end = t.lines[line] - 1
	}
	if col < 1 || start+col-1 > end {
		return 0, fmt.Errorf("column %d out of range (line %d has %d characters)", col, line, end-start)
	}
	return start + col - 1, nil
}

// Position converts a character offset to a 1-based line and column.
func (t *Text) Position(offset int) (line, col int, err error) {
	if offset < 0 || offset > len(t.runes) {
		return 0, 0, fmt.Errorf("offset %d out of range (document has %d characters)", offset, len(t.runes))
	}
	idx := sort.SearchInts(t.lines, offset+1) - 1
	return idx + 1, offset - t.lines[idx] + 1, nil
}

// Slice returns the characters in [start, end), clamped to the document.
func (t *Text) Slice(start, end int) string {
	start = max(0, start)
	end = min(len(t.runes), end)
	if start >= end {
		return ""
	}
	return string(t.runes[start:end])
}

// Line returns the text of a 1-based line without its newline.
func (t *Text) Line(line int) string {
	if line < 1 || line > len(t.lines) {
		return ""
	}
	start := t.lines[line-1]
	end := len(t.runes)
	if line < len(t.lines) {
		end = t.lines[line] - 1
	}
	return strings.TrimSuffix(string(t.runes[start:end]), "\r")
}

package expand

import (
	"slices"
	"strings"

	"github.com/jasonmoo/scssexpand/internal/document"
)

// frameScanner walks a document backward from a cursor, one nesting level
// at a time, collecting the selector text in front of each enclosing '{'.
type frameScanner struct {
	doc      document.Document
	comments CommentIndex
	quotes   CommentIndex
}

func newFrameScanner(doc document.Document, comments CommentIndex, cursor int) *frameScanner {
	return &frameScanner{
		doc:      doc,
		comments: comments,
		quotes:   quotedRanges(doc, comments, cursor+1),
	}
}

// ResolveFrames returns the selector text of every rule enclosing cursor,
// outermost first. Braces and text inside comments are ignored, and braces
// inside quoted strings do not nest.
func ResolveFrames(doc document.Document, comments CommentIndex, cursor int) []string {
	s := newFrameScanner(doc, comments, cursor)
	return s.frames(cursor)
}

// EnclosingBlock returns the position of the '{' that opens the innermost
// rule enclosing cursor, or -1.
func EnclosingBlock(doc document.Document, comments CommentIndex, cursor int) int {
	s := newFrameScanner(doc, comments, cursor)
	for pos := cursor; pos >= 0; {
		open := s.findOpenBrace(pos)
		if open < 0 || charAt(s.doc, open-1) != '#' {
			return open
		}
		pos = open - 2
	}
	return -1
}

func (s *frameScanner) frames(cursor int) []string {
	var frames []string
	pos := cursor
	for pos >= 0 {
		open := s.findOpenBrace(pos)
		if open < 0 {
			break
		}
		pos = open - 1
		// "#{" opens an interpolation, not a block
		if charAt(s.doc, pos) == '#' {
			continue
		}
		if sel := s.gatherSelector(pos); sel != "" {
			frames = append(frames, sel)
		}
	}
	slices.Reverse(frames)
	return frames
}

// findOpenBrace returns the position of the first unmatched '{' at or
// before pos, or -1 when the document start is reached.
func (s *frameScanner) findOpenBrace(pos int) int {
	depth := 0
	for ; pos >= 0; pos-- {
		if r, ok := s.comments.Containing(pos); ok {
			pos = r.Start
			continue
		}
		if r, ok := s.quotes.Containing(pos); ok {
			pos = r.Start
			continue
		}
		switch charAt(s.doc, pos) {
		case '{':
			depth--
			if depth < 0 {
				return pos
			}
		case '}':
			depth++
		}
	}
	return -1
}

// gatherSelector reads backward from pos until a ';', a '{', a closing
// brace that does not end an interpolation, or the document start.
func (s *frameScanner) gatherSelector(pos int) string {
	var buf []rune // reversed
	for pos >= 0 {
		if r, ok := s.comments.Containing(pos); ok {
			pos = r.Start - 1
			continue
		}
		if r, ok := s.quotes.Containing(pos); ok {
			buf = s.appendQuoted(buf, r, pos)
			pos = r.Start - 1
			continue
		}
		c := charAt(s.doc, pos)
		if c == ';' || c == '{' {
			break
		}
		if c == '}' {
			open, span := s.interpolation(pos)
			if open < 0 {
				break
			}
			buf = append(buf, span...)
			pos = open - 1
			continue
		}
		buf = append(buf, c)
		pos--
	}
	slices.Reverse(buf)
	return strings.TrimSpace(string(buf))
}

// interpolation reads backward from the '}' at pos to its matching '{'.
// When that brace is part of "#{", it returns the brace position and the
// span in reverse order. Otherwise it returns -1.
func (s *frameScanner) interpolation(pos int) (int, []rune) {
	span := []rune{'}'}
	depth := 0
	for i := pos - 1; i >= 0; i-- {
		if r, ok := s.comments.Containing(i); ok {
			i = r.Start
			continue
		}
		if r, ok := s.quotes.Containing(i); ok {
			span = s.appendQuoted(span, r, i)
			i = r.Start
			continue
		}
		c := charAt(s.doc, i)
		span = append(span, c)
		switch c {
		case '}':
			depth++
		case '{':
			if depth > 0 {
				depth--
				continue
			}
			if charAt(s.doc, i-1) == '#' {
				return i, span
			}
			return -1, nil
		}
	}
	return -1, nil
}

// appendQuoted appends the quoted run r from pos back to its opening quote,
// in reverse order.
func (s *frameScanner) appendQuoted(buf []rune, r CommentRange, pos int) []rune {
	for i := pos; i >= r.Start; i-- {
		buf = append(buf, charAt(s.doc, i))
	}
	return buf
}

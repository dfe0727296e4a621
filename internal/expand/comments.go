package expand

import (
	"sort"

	"github.com/jasonmoo/scssexpand/internal/document"
)

// CommentRange is an inclusive span of comment characters. Start is the
// first '/' of the marker. End is the newline closing a line comment, or
// the '/' closing a block comment.
type CommentRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// CommentIndex holds disjoint comment ranges ordered by Start.
type CommentIndex []CommentRange

// BuildCommentIndex scans doc forward over [0, end) and records every line
// and block comment. Comments left open at the boundary extend to it: line
// comments end at end-1, block comments at end.
func BuildCommentIndex(doc document.Document, end int) CommentIndex {
	end = min(end, doc.Len())

	var idx CommentIndex
	for i := 0; i < end; i++ {
		if charAt(doc, i) != '/' {
			continue
		}
		switch charAt(doc, i+1) {
		case '/':
			j := i
			for charAt(doc, j) != '\n' {
				if j >= end {
					return append(idx, CommentRange{Start: i, End: end - 1})
				}
				j++
			}
			idx = append(idx, CommentRange{Start: i, End: j})
			i = j
		case '*':
			// skip both opening characters so "/*/" stays open
			j := i + 2
			for charAt(doc, j) != '*' || charAt(doc, j+1) != '/' {
				if j >= end-1 {
					return append(idx, CommentRange{Start: i, End: end})
				}
				j++
			}
			idx = append(idx, CommentRange{Start: i, End: j + 1})
			i = j + 1
		}
	}
	return idx
}

// Containing returns the range that covers pos, if any.
func (idx CommentIndex) Containing(pos int) (CommentRange, bool) {
	i := sort.Search(len(idx), func(i int) bool { return idx[i].Start > pos }) - 1
	if i >= 0 && pos <= idx[i].End {
		return idx[i], true
	}
	return CommentRange{}, false
}

// quotedRanges scans doc forward over [0, end) and records every string
// closed on its own line. Quotes inside comments are ignored, and a string
// cut by a comment or a newline is not recorded.
func quotedRanges(doc document.Document, comments CommentIndex, end int) CommentIndex {
	end = min(end, doc.Len())

	var idx CommentIndex
	for i := 0; i < end; i++ {
		if r, ok := comments.Containing(i); ok {
			i = r.End
			continue
		}
		q := charAt(doc, i)
		if q != '"' && q != '\'' {
			continue
		}
		for j := i + 1; j < end; j++ {
			if _, ok := comments.Containing(j); ok {
				break
			}
			c := charAt(doc, j)
			if c == '\\' {
				j++
				continue
			}
			if c == '\n' {
				break
			}
			if c == q {
				idx = append(idx, CommentRange{Start: i, End: j})
				i = j
				break
			}
		}
	}
	return idx
}

// charAt reads doc at i, returning 0 outside the document.
func charAt(doc document.Document, i int) rune {
	if i < 0 || i >= doc.Len() {
		return 0
	}
	return doc.CharAt(i)
}

package output

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jasonmoo/scssexpand/internal/document"
	"github.com/jasonmoo/scssexpand/internal/expand"
)

const (
	// SmartSnippetMaxLines is the max lines for showing a complete rule block
	SmartSnippetMaxLines = 12
	// SmartSnippetFallbackContext is the default lines before/after for fallback
	SmartSnippetFallbackContext = 3
)

// SnippetExtractor extracts source snippets from style sheets.
type SnippetExtractor struct {
	// ContextLines is the window around the opening line used when a rule
	// block is too long to show whole.
	ContextLines int

	mu    sync.Mutex
	cache map[string]*document.Text // file path -> document
}

// NewSnippetExtractor creates a new snippet extractor.
func NewSnippetExtractor() *SnippetExtractor {
	return &SnippetExtractor{
		ContextLines: SmartSnippetFallbackContext,
		cache:        make(map[string]*document.Text),
	}
}

// Add registers an already loaded document, so that snippets can be taken
// from sources that cannot be reread, such as stdin.
func (e *SnippetExtractor) Add(filePath string, doc *document.Text) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache[filePath] = doc
}

// Extract returns source lines around a position.
// line is 1-indexed (as displayed to users).
// contextLines specifies how many lines before and after to include.
func (e *SnippetExtractor) Extract(filePath string, line, contextLines int) (*Snippet, error) {
	doc, err := e.getDocument(filePath)
	if err != nil {
		return nil, err
	}
	if line < 1 || line > doc.LineCount() {
		return nil, fmt.Errorf("line %d out of range (file has %d lines)", line, doc.LineCount())
	}

	start := max(1, line-contextLines)
	end := min(doc.LineCount(), line+contextLines)
	return e.snippet(filePath, doc, start, end), nil
}

// ExtractRange returns lines startLine through endLine inclusive.
func (e *SnippetExtractor) ExtractRange(filePath string, startLine, endLine int) (*Snippet, error) {
	doc, err := e.getDocument(filePath)
	if err != nil {
		return nil, err
	}
	if startLine < 1 || startLine > doc.LineCount() {
		return nil, fmt.Errorf("start line %d out of range (file has %d lines)", startLine, doc.LineCount())
	}
	return e.snippet(filePath, doc, startLine, min(doc.LineCount(), endLine)), nil
}

// ExtractRule returns the rule block whose opening brace is at offset.
// Blocks of at most SmartSnippetMaxLines lines are returned whole. Longer or
// unterminated blocks fall back to ContextLines around the opening line.
func (e *SnippetExtractor) ExtractRule(filePath string, offset int) (*Snippet, error) {
	doc, err := e.getDocument(filePath)
	if err != nil {
		return nil, err
	}
	line, _, err := doc.Position(offset)
	if err != nil {
		return nil, err
	}
	startLine := line

	if end := matchingBrace(doc, offset); end >= 0 {
		endLine, _, _ := doc.Position(end)
		// Include the selector when it sits on lines above the brace
		for startLine > 1 && !strings.ContainsAny(doc.Line(startLine-1), "{};") &&
			strings.TrimSpace(doc.Line(startLine-1)) != "" {
			startLine--
		}
		if endLine-startLine+1 <= SmartSnippetMaxLines {
			return e.snippet(filePath, doc, startLine, endLine), nil
		}
	}

	return e.Extract(filePath, line, e.ContextLines)
}

// matchingBrace returns the offset of the brace closing the block opened at
// open, skipping comments and interpolation, or -1.
func matchingBrace(doc *document.Text, open int) int {
	comments := expand.BuildCommentIndex(doc, doc.Len())
	depth := 0
	for i := open; i < doc.Len(); i++ {
		if r, ok := comments.Containing(i); ok {
			i = r.End
			continue
		}
		switch doc.CharAt(i) {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (e *SnippetExtractor) snippet(filePath string, doc *document.Text, start, end int) *Snippet {
	lines := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		lines = append(lines, doc.Line(n))
	}
	return &Snippet{
		Location: fmt.Sprintf("%s:%d:%d", filePath, start, end),
		Start:    start,
		End:      end,
		Source:   strings.Join(lines, "\n"),
	}
}

func (e *SnippetExtractor) getDocument(filePath string) (*document.Text, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Check cache
	if doc, ok := e.cache[filePath]; ok {
		return doc, nil
	}

	doc, err := document.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	// Cache the result
	e.cache[filePath] = doc

	return doc, nil
}

// Forget drops one cached document so the next snippet rereads it.
func (e *SnippetExtractor) Forget(filePath string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cache, filePath)
}

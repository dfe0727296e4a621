// Package expand resolves the fully qualified selector of the rule that
// encloses a position in a nested style sheet (SCSS, LESS or plain CSS).
//
// Resolution works on raw text. Comments are indexed with one forward pass,
// the enclosing rules are found by scanning backward from the cursor, and
// the collected selector frames are then expanded forward: @at-root is
// applied, flow control levels are dropped, comma lists are multiplied out
// and '&' is replaced by the parent selector.
//
// Every input produces a result. Unterminated comments run to the scan
// boundary, and a cursor outside any rule resolves to the empty string.
package expand

import (
	"log/slog"
	"strings"

	"github.com/jasonmoo/scssexpand/internal/document"
)

// DefaultSeparator joins nesting levels.
const DefaultSeparator = " "

// Options configures an Expander.
type Options struct {
	// Separator joins a parent selector to a nested one. Empty means
	// DefaultSeparator; use WithSeparator for an empty separator.
	Separator string
	// Logger receives debug records. Nil uses slog.Default().
	Logger *slog.Logger
}

// Expander resolves selectors. It holds no per-document state and is safe
// for concurrent use.
type Expander struct {
	separator string
	logger    *slog.Logger
}

// New creates an Expander.
func New(opts Options) *Expander {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Expander{
		separator: opts.Separator,
		logger:    opts.Logger,
	}
}

// WithSeparator returns a copy of e joining nesting levels with separator
// exactly as given, including the empty string.
func (e *Expander) WithSeparator(separator string) *Expander {
	c := *e
	c.separator = separator
	return &c
}

// Separator returns the string joining nesting levels.
func (e *Expander) Separator() string { return e.separator }

// Result records each stage of one resolution.
type Result struct {
	Cursor       int          `json:"cursor" yaml:"cursor"`
	Block        int          `json:"block" yaml:"block"` // innermost enclosing '{', or -1
	Comments     CommentIndex `json:"comments,omitempty" yaml:"comments,omitempty"`
	Frames       []string     `json:"frames" yaml:"frames"`
	AtRoot       *AtRoot      `json:"at_root,omitempty" yaml:"at_root,omitempty"`
	Filtered     []string     `json:"filtered" yaml:"filtered"`
	Alternatives []string     `json:"alternatives" yaml:"alternatives"`
	Selector     string       `json:"selector" yaml:"selector"`
}

// Trace resolves the selector at cursor and keeps the intermediate stages.
// The comment index covers the document up to the cursor.
func (e *Expander) Trace(doc document.Document, cursor int) *Result {
	return e.TraceIndexed(doc, BuildCommentIndex(doc, cursor), cursor)
}

// TraceIndexed is Trace with a prebuilt comment index. An index of the
// whole document gives the same result as Trace for any cursor that is not
// itself inside a comment.
func (e *Expander) TraceIndexed(doc document.Document, comments CommentIndex, cursor int) *Result {
	res := &Result{Cursor: cursor, Comments: comments}

	res.Frames = ResolveFrames(doc, res.Comments, cursor)
	res.Block = EnclosingBlock(doc, res.Comments, cursor)

	res.Filtered = res.Frames
	if at, ok := FindAtRoot(res.Frames); ok {
		res.AtRoot = &at
		res.Filtered = at.Apply(res.Frames)
		e.logger.Debug("applied at-root",
			slog.String("directive", at.String()),
			slog.Int("frame", at.Frame),
			slog.Int("kept", len(res.Filtered)))
	}

	res.Alternatives = Alternatives(res.Filtered, e.separator)
	if res.Alternatives == nil {
		res.Alternatives = []string{}
	}
	res.Selector = strings.Join(res.Alternatives, ", ")

	e.logger.Debug("resolved selector",
		slog.Int("cursor", cursor),
		slog.Int("comments", len(res.Comments)),
		slog.Int("frames", len(res.Frames)),
		slog.Int("alternatives", len(res.Alternatives)))
	return res
}

// Coalesce returns the selector of the innermost rule enclosing cursor.
func (e *Expander) Coalesce(doc document.Document, cursor int) string {
	return e.Trace(doc, cursor).Selector
}

// Resolve returns the selector of the innermost rule enclosing cursor,
// joining nesting levels with separator.
func Resolve(doc document.Document, cursor int, separator string) string {
	return New(Options{}).WithSeparator(separator).Coalesce(doc, cursor)
}

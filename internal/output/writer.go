package output

import (
	"io"

	"github.com/jasonmoo/scssexpand/internal/errors"
)

// Writer handles output formatting.
type Writer struct {
	w         io.Writer
	formatter Formatter
}

// NewWriter creates a new output writer.
func NewWriter(w io.Writer, f Formatter) *Writer {
	return &Writer{
		w:         w,
		formatter: f,
	}
}

// Write formats v and writes it.
func (w *Writer) Write(v any) error {
	data, err := w.formatter.Format(v)
	if err != nil {
		return err
	}
	_, err = w.w.Write(data)
	return err
}

// WriteError writes an error response. Errors other than *errors.ExpandError
// are reported under fallback.
func (w *Writer) WriteError(err error, fallback errors.Code) error {
	ee := errors.As(err, fallback)
	resp := &ErrorResponse{
		Error: ErrorDetail{
			Code:        string(ee.Code),
			Message:     ee.Message,
			Suggestions: ee.Suggestions,
			Context:     ee.Context,
		},
	}
	return w.Write(resp)
}

package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/corpscope/internal/model"
)

// JSONWriter writes the ReportData exactly as the backend returned it, one
// document per Write, for other tools to consume.
//
// URLs and company names are written as-is: characters such as & and < are
// not escaped to \u0026 and \u003c.
type JSONWriter struct {
	baseWriter

	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting with
// prefix. An empty indent keeps the output on one line.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter writing compact JSON to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes data followed by a newline.
func (w *JSONWriter) Write(data *model.ReportData) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent != "" {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(data); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

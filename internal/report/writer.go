package report

import (
	"io"

	"github.com/nao1215/corpscope/internal/model"
)

// Writer defines the interface for report output.
// Implementations write a generated report in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(data *model.ReportData) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(data *model.ReportData) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(data)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// reportOf returns the report body of data, or an empty report when data is
// nil or malformed. Renderers use it so that they never fail on input.
func reportOf(data *model.ReportData) (string, model.Report) {
	if data == nil {
		return "", model.Report{}
	}
	if data.Report == nil {
		return data.CompanyName, model.Report{}
	}
	return data.CompanyName, *data.Report
}

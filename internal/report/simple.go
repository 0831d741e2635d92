package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/corpscope/internal/model"
)

// separatorWidth is the width of the ASCII rules drawn by SimpleWriter.
const separatorWidth = 60

// SimpleWriter outputs a short human-readable summary of a report.
// It is meant for terminal display when the full document is not wanted.
type SimpleWriter struct {
	baseWriter

	// verbose adds the business description and news titles.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary.
func (w *SimpleWriter) Write(data *model.ReportData) (int, error) {
	company, r := reportOf(data)

	var sb strings.Builder
	rule := strings.Repeat("=", separatorWidth)

	sb.WriteString(rule + "\n")
	sb.WriteString(strings.ToUpper(model.DisplayTitle(company)) + "\n")
	sb.WriteString(rule + "\n\n")

	if w.verbose && r.Overview.BusinessDescription != "" {
		sb.WriteString(r.Overview.BusinessDescription + "\n\n")
	}

	fmt.Fprintf(&sb, "  Products & services:    %d\n", len(r.Overview.CoreProductsAndServices))
	fmt.Fprintf(&sb, "  Leadership entries:     %d\n", len(r.Overview.LeadershipTeam))
	fmt.Fprintf(&sb, "  Competitive advantages: %d\n", len(r.Overview.CompetitiveAdvantages))
	fmt.Fprintf(&sb, "  Competitors:            %d\n", len(r.Industry.Competition))
	fmt.Fprintf(&sb, "  Key metrics:            %d\n", len(r.Financials.KeyMetrics))
	fmt.Fprintf(&sb, "  News items:             %d\n", len(r.News.NewsItems))
	fmt.Fprintf(&sb, "  References:             %d\n", len(r.References.References))

	if r.Financials.HasHighlights() {
		fmt.Fprintf(&sb, "\n  Revenue 2024: %s\n", r.Financials.Revenue2024)
		if r.Financials.GrowthRate != "" {
			fmt.Fprintf(&sb, "  Growth rate:  %s\n", r.Financials.GrowthRate)
		}
	}

	if w.verbose && len(r.News.NewsItems) > 0 {
		sb.WriteString("\n  Latest news:\n")
		for _, n := range r.News.NewsItems {
			if n.Date != "" {
				fmt.Fprintf(&sb, "    - [%s] %s\n", n.Date, n.Title)
				continue
			}
			fmt.Fprintf(&sb, "    - %s\n", n.Title)
		}
	}

	sb.WriteString("\n" + strings.Repeat("-", separatorWidth) + "\n")

	return io.WriteString(w.output, sb.String())
}

package report

import (
	"io"
	"regexp"
	"strings"

	"github.com/nao1215/corpscope/internal/model"
)

// Substitution patterns applied by ToHTML, in order.
// Longer heading markers come first so "### " is never read as "# ".
var (
	h3Pattern     = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Pattern     = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Pattern     = regexp.MustCompile(`(?m)^# (.*)$`)
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	linkPattern   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	bulletPattern = regexp.MustCompile(`(?m)^- (.*)$`)
	listRun       = regexp.MustCompile(`(?m)^<li>.*</li>(?:\n<li>.*</li>)*`)

	paragraphHeadOpen  = regexp.MustCompile(`<p>(<h[1-3]>)`)
	paragraphHeadClose = regexp.MustCompile(`(</h[1-3]>)</p>`)
)

// ToHTML converts a Markdown document produced by MarkdownWriter into an
// HTML fragment.
//
// Headings (#, ##, ###), bold text, links, bullet lists and blank-line
// separated paragraphs are converted. Each contiguous run of bullet lines
// becomes a single <ul>. Empty paragraphs are dropped and paragraph wrappers
// around headings and lists are removed. Nested or escaped markup is not
// handled, and text is not HTML-escaped.
func ToHTML(md string) string {
	out := h3Pattern.ReplaceAllString(md, "<h3>${1}</h3>")
	out = h2Pattern.ReplaceAllString(out, "<h2>${1}</h2>")
	out = h1Pattern.ReplaceAllString(out, "<h1>${1}</h1>")

	out = boldPattern.ReplaceAllString(out, "<strong>${1}</strong>")
	out = linkPattern.ReplaceAllString(out, `<a href="${2}" target="_blank">${1}</a>`)

	out = bulletPattern.ReplaceAllString(out, "<li>${1}</li>")
	out = listRun.ReplaceAllStringFunc(out, func(run string) string {
		return "<ul>" + run + "</ul>"
	})

	out = strings.TrimRight(out, "\n")
	out = "<p>" + strings.ReplaceAll(out, "\n\n", "</p><p>") + "</p>"

	out = strings.ReplaceAll(out, "<p></p>", "")
	out = paragraphHeadOpen.ReplaceAllString(out, "${1}")
	out = paragraphHeadClose.ReplaceAllString(out, "${1}")
	out = strings.ReplaceAll(out, "<p><ul>", "<ul>")
	out = strings.ReplaceAll(out, "</ul></p>", "</ul>")

	return out
}

// RenderHTML returns the HTML fragment for data: the Markdown template
// followed by ToHTML.
func RenderHTML(data *model.ReportData, opts ...MarkdownOption) string {
	return ToHTML(RenderMarkdown(data, opts...))
}

// HTMLWriter outputs reports as an HTML fragment.
type HTMLWriter struct {
	baseWriter

	// markdownOpts configure the intermediate Markdown document.
	markdownOpts []MarkdownOption
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...MarkdownOption) *HTMLWriter {
	return &HTMLWriter{
		baseWriter:   newBaseWriter(output),
		markdownOpts: opts,
	}
}

// Write outputs the report as HTML.
func (w *HTMLWriter) Write(data *model.ReportData) (int, error) {
	return io.WriteString(w.output, RenderHTML(data, w.markdownOpts...))
}

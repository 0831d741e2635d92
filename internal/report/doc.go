// Package report renders research reports into output formats.
//
// This package contains writers for different output formats:
//   - MarkdownWriter: The fixed research-report Markdown template
//   - HTMLWriter: The Markdown template converted to an HTML fragment
//   - JSONWriter: The raw report payload for tool integration
//   - SimpleWriter: A short human-readable summary for terminal display
//
// The Markdown to HTML conversion (ToHTML) is a fixed sequence of text
// substitutions. It is only correct for documents produced by
// MarkdownWriter and is not a general-purpose Markdown converter.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report

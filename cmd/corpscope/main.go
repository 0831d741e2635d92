// Package main provides the entry point for the corpscope CLI.
//
// corpscope asks a research backend to investigate a company and renders the
// result as a structured research report.
//
// Usage:
//
//	corpscope keys set --cohere <key> --tavily <key>
//	corpscope generate "Acme Corp"
//	corpscope generate --list companies.txt --json -o reports.json
//	corpscope preview
//
// See --help for all available options.
package main

// main is the entry point for corpscope.
func main() {
	Execute()
}

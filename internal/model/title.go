package model

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleSuffix is appended to the company name in the report heading.
const titleSuffix = " Research Report"

// CapitalizeFirst upper-cases the first character of s and lower-cases the
// rest. "acme CORP" becomes "Acme corp".
func CapitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	first := cases.Upper(language.Und).String(string(r))
	rest := cases.Lower(language.Und).String(s[size:])
	return first + rest
}

// DisplayTitle derives the report title shown above the rendered report.
func DisplayTitle(companyName string) string {
	return CapitalizeFirst(companyName) + titleSuffix
}

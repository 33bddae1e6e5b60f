package services

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
)

// fold returns s case-folded for case-insensitive matching.
// A Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// containsFold reports whether substr occurs in s ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

// stripHTML returns the text content of an HTML fragment.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

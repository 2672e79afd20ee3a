package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldCase lower-cases s for case-insensitive comparison.
// A cases.Caser is stateful, so a fresh one is built per call.
func FoldCase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// NormalizeEmail trims and case-folds an email address.
func NormalizeEmail(s string) string {
	return FoldCase(strings.TrimSpace(s))
}

// SplitList splits comma/semicolon separated values into trimmed, non-empty parts.
func SplitList(raw string) []string {
	out := []string{}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

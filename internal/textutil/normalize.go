package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CollapseSpace replaces every run of Unicode whitespace with a single ASCII
// space and trims the result.
func CollapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeCell applies NFKC folding and whitespace collapsing to raw cell text.
// Zero-width and other format characters are dropped.
func NormalizeCell(value string) string {
	if value == "" {
		return ""
	}
	folded := norm.NFKC.String(value)
	folded = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, folded)
	return CollapseSpace(folded)
}

// IsBlank reports whether value contains only whitespace.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// Package canonical normalizes free-text and option strings so they can be
// compared regardless of case, accents and punctuation. Canonical strings
// are for comparison only and are never stored or displayed.
package canonical

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripped = strings.NewReplacer(
	"’", "",
	"'", "",
	"(", "",
	")", "",
)

// String trims s, folds combining diacritics, removes apostrophes and
// parentheses and lowercases the result. It is total and idempotent.
func String(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = stripped.Replace(folded)
	return strings.TrimSpace(strings.ToLower(folded))
}

// Equal reports whether a and b are equal once canonicalized.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

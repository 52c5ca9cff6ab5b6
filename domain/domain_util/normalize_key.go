package domain_util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey maps a free-text artist name to its canonical slug key:
// lowercase, diacritics stripped, every run of characters outside [a-z0-9]
// collapsed to a single hyphen, leading/trailing hyphens trimmed.
// Inputs that differ only in casing, punctuation or accents share one key,
// which is what deduplicates AI-extracted name variants.
func NormalizeKey(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

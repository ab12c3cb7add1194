// Package textutils provides text normalization helpers shared by the
// column mapper, the categorizer and the resolution engine.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks, so "día" becomes "dia" and
// "Almacén" becomes "Almacen". Input that cannot be transformed is
// returned unchanged.
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsRemover, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeHeader canonicalizes a column header: lowercase, diacritics
// stripped, runs of whitespace, hyphens and underscores collapsed to a
// single underscore. Empty input yields empty output.
func NormalizeHeader(header string) string {
	s := strings.ToLower(StripDiacritics(strings.TrimSpace(header)))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeText canonicalizes free text for keyword matching: lowercase,
// diacritics stripped, whitespace collapsed to single spaces.
func NormalizeText(s string) string {
	s = strings.ToLower(StripDiacritics(s))
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits normalized text into alphanumeric tokens, keeping only
// tokens longer than minLen runes.
func Tokenize(s string, minLen int) []string {
	normalized := NormalizeText(s)
	raw := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tokens []string
	for _, tok := range raw {
		if len([]rune(tok)) > minLen {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

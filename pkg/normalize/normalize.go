// Package normalize cleans raw extracted legal text before structural
// parsing. Upstream extraction (web scraping, word-processor conversion)
// leaves behind a family of ordinal-marker typos and whitespace damage
// that the rewrite rules here repair.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// crTabPattern matches carriage returns and tabs, which become
	// plain spaces.
	crTabPattern = regexp.MustCompile("[\r\t]")

	// ordinalMarkerPattern matches the ordinal-number marker in any of
	// its damaged spellings: "nº", "n °", "nºº", "nº." and so on.
	ordinalMarkerPattern = regexp.MustCompile(`(?i)\bn *[º°]+\.? *`)

	// numeroDotPattern matches the "n. 123" spelling of the marker.
	numeroDotPattern = regexp.MustCompile(`(?i)\bn\. *(\d)`)

	// digitGlyphPattern matches a digit separated from its ordinal
	// glyph, or followed by a run of glyphs.
	digitGlyphPattern = regexp.MustCompile(`(\d) *[º°]+`)

	// letterGlyphPattern matches an ordinal glyph wrongly inserted
	// between two letters, a common OCR artifact.
	letterGlyphPattern = regexp.MustCompile(`([a-zA-ZÀ-ÖØ-öø-ÿ])[º°]+([a-zA-ZÀ-ÖØ-öø-ÿ])`)

	// newlineRunPattern matches three or more consecutive newlines.
	newlineRunPattern = regexp.MustCompile(`\n{3,}`)
)

// Clean rewrites raw extracted text into canonical form. It is a pure
// function and idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	s = crTabPattern.ReplaceAllString(s, " ")
	s = ordinalMarkerPattern.ReplaceAllString(s, "nº ")
	s = numeroDotPattern.ReplaceAllString(s, "nº $1")
	s = digitGlyphPattern.ReplaceAllString(s, "${1}º")
	// Replace-all skips overlapping matches ("aºbºc"), so iterate to a
	// fixed point.
	for {
		out := letterGlyphPattern.ReplaceAllString(s, "$1$2")
		if out == s {
			break
		}
		s = out
	}
	s = newlineRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Fold strips combining accent marks so that matching treats "Capítulo"
// and "CAPITULO" alike. Case and all other characters are preserved.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

package utils

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeText reduces inbound message content to plain text before it is
// stored or sent to the classifier.
func SanitizeText(s string) string {
	p := bluemonday.StrictPolicy()
	s = p.Sanitize(s)

	s = html.UnescapeString(s)
	s = strings.ToValidUTF8(s, "")

	// Collapse extra whitespace
	s = strings.Join(strings.Fields(s), " ")

	return s
}

// Transformer chain to remove accents
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents lower-cases and strips combining marks so keyword matching
// works across accented and unaccented spellings.
func FoldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

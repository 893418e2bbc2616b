package dict

import (
	"strings"

	"github.com/hazyhaar/phonocoach/pkg/text"
)

// Normalizer transforms a headword before it is stored or looked up.
type Normalizer func(string) string

// NormalizeLower lowercases and folds typographic apostrophes, so
// "DON’T" and "don't" share a key.
func NormalizeLower(s string) string {
	return text.FoldQuotes(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeASCII additionally strips diacritics (CAFÉ -> cafe).
func NormalizeASCII(s string) string {
	return text.StripMarks(NormalizeLower(s))
}

// NormalizeNone returns the term unchanged.
func NormalizeNone(s string) string {
	return s
}

// GetNormalizer returns the normalizer for the given mode.
// Default is lower.
func GetNormalizer(mode string) Normalizer {
	switch mode {
	case "ascii":
		return NormalizeASCII
	case "none":
		return NormalizeNone
	default:
		return NormalizeLower
	}
}

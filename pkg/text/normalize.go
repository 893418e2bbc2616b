// Package text turns free text into comparable word tokens.
//
// Three tokenizers live here because each consumer needs a slightly
// different view of the same input: whitespace tokens for transcript
// alignment, ASCII word/number tokens for English transcription, and
// Unicode letter runs for Italian transcription.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var curlyQuotes = strings.NewReplacer("’", "'", "‘", "'", "‛", "'", "ʼ", "'")

// StripMarks removes diacritics (é -> e, ñ -> n).
func StripMarks(s string) string {
	result, _, _ := transform.String(stripMarks, s)
	return result
}

// FoldQuotes rewrites typographic apostrophes to a plain '.
func FoldQuotes(s string) string {
	return curlyQuotes.Replace(s)
}

// NormalizeWord is the equality key used for alignment: lowercase, no
// diacritics, only letters, numbers and interior apostrophes.
func NormalizeWord(w string) string {
	w = FoldQuotes(strings.ToLower(w))
	w = norm.NFKD.String(w)
	w = strings.Map(keepWordRune, w)
	return strings.Trim(w, "'")
}

// NormalizeAnswer canonicalizes a typed short answer so that case,
// accents and punctuation do not affect comparison.
func NormalizeAnswer(s string) string {
	s = FoldQuotes(strings.ToLower(strings.TrimSpace(s)))
	s = StripMarks(norm.NFKD.String(s))
	s = strings.Map(func(r rune) rune {
		if r == ' ' || unicode.IsSpace(r) {
			return ' '
		}
		return keepWordRune(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func keepWordRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' {
		return r
	}
	return -1
}

package text

import (
	"regexp"
	"strings"
	"unicode"
)

// Token is one whitespace-delimited word of a phrase or transcript.
type Token struct {
	Surface    string `json:"surface"`
	Normalized string `json:"normalized"`
}

// Tokenize splits text on whitespace and normalizes every piece.
// Pieces that normalize to nothing (pure punctuation) are dropped.
func Tokenize(s string) []Token {
	fields := strings.Fields(s)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		n := NormalizeWord(f)
		if n == "" {
			continue
		}
		tokens = append(tokens, Token{Surface: f, Normalized: n})
	}
	return tokens
}

// Kind classifies a token produced by Words.
type Kind int

const (
	WordKind Kind = iota
	ClockKind
	IntegerKind
)

func (k Kind) String() string {
	switch k {
	case ClockKind:
		return "clock"
	case IntegerKind:
		return "integer"
	default:
		return "word"
	}
}

// Word is a lowercase token of the English transcription pipeline.
type Word struct {
	Text string
	Kind Kind
}

var (
	dashFolder = strings.NewReplacer("‑", "-", "‒", "-", "–", "-", "—", "-")

	// Alternation order matters: a clock must win over its leading digits.
	englishWordRe = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?|\d{1,2}:\d{2}|\d+`)
	clockRe       = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	integerRe     = regexp.MustCompile(`^\d+$`)
)

// foldPunctuation applies the quote and dash folding shared by both
// transcription tokenizers; hyphenated compounds become separate words.
func foldPunctuation(s string) string {
	s = FoldQuotes(s)
	s = dashFolder.Replace(s)
	return strings.ReplaceAll(s, "-", " ")
}

// Words extracts ASCII words (with one optional interior apostrophe),
// H:MM clock times and integers from s.
func Words(s string) []Word {
	matches := englishWordRe.FindAllString(foldPunctuation(s), -1)
	words := make([]Word, 0, len(matches))
	for _, m := range matches {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		kind := WordKind
		switch {
		case clockRe.MatchString(m):
			kind = ClockKind
		case integerRe.MatchString(m):
			kind = IntegerKind
		}
		words = append(words, Word{Text: m, Kind: kind})
	}
	return words
}

// LetterWords extracts runs of Unicode letters, numbers and apostrophes,
// so accented vowels stay inside their word.
func LetterWords(s string) []string {
	fields := strings.FieldsFunc(foldPunctuation(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'')
	})
	words := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			words = append(words, f)
		}
	}
	return words
}

package ipa

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/hazyhaar/phonocoach/pkg/text"
)

// italianRule rewrites letters to IPA when the text at the cursor
// starts with prefix and, if before is set, the following letter is one
// of before. consume may be shorter than prefix: "gli" only consumes
// "gl" so the i is still read as a vowel.
type italianRule struct {
	prefix  string
	before  string
	consume int
	ipa     string
}

// italianRules are tried in order; the first match wins.
var italianRules = []italianRule{
	{"gli", "", 2, "ʎ"},
	{"gn", "", 2, "ɲ"},
	{"qu", "", 2, "kw"},
	{"sch", "", 3, "sk"},
	{"ch", "", 2, "k"},
	{"gh", "", 2, "g"},
	{"sc", "ei", 2, "ʃ"},
	{"ci", "aou", 2, "tʃ"},
	{"gi", "aou", 2, "dʒ"},
	{"c", "ei", 1, "tʃ"},
	{"g", "ei", 1, "dʒ"},
	{"h", "", 1, ""},
}

// italianLetters covers the letters no rule consumed. Anything absent
// (digits, foreign letters) is dropped.
var italianLetters = map[rune]string{
	'a': "a", 'e': "e", 'i': "i", 'o': "o", 'u': "u",
	'b': "b", 'd': "d", 'f': "f", 'l': "l", 'm': "m", 'n': "n", 'p': "p",
	'r': "r", 's': "s", 't': "t", 'v': "v",
	'z': "ts", 'c': "k", 'g': "g", 'x': "ks", 'y': "i", 'w': "w", 'k': "k", 'j': "j",
}

// Italian transcribes Italian orthography by rule. It has no state.
type Italian struct{}

// Transcribe returns the slash-wrapped IPA of s, or Placeholder when no
// word produces any sound.
func (Italian) Transcribe(s string) string {
	var words []string
	for _, w := range text.LetterWords(s) {
		if ipa := italianWord(w); ipa != "" {
			words = append(words, ipa)
		}
	}
	return wrap(words)
}

func italianWord(word string) string {
	w := text.FoldQuotes(strings.ToLower(strings.TrimSpace(word)))
	w = strings.ReplaceAll(w, "'", "")
	w = text.StripMarks(norm.NFKD.String(w))

	var b strings.Builder
	for i := 0; i < len(w); {
		if r, ok := matchItalianRule(w, i); ok {
			b.WriteString(r.ipa)
			i += r.consume
			continue
		}
		c, size := utf8.DecodeRuneInString(w[i:])
		b.WriteString(italianLetters[c])
		i += size
	}
	return b.String()
}

func matchItalianRule(w string, i int) (italianRule, bool) {
	for _, r := range italianRules {
		if !strings.HasPrefix(w[i:], r.prefix) {
			continue
		}
		if r.before != "" {
			j := i + len(r.prefix)
			if j >= len(w) || !strings.ContainsRune(r.before, rune(w[j])) {
				continue
			}
		}
		return r, true
	}
	return italianRule{}, false
}
